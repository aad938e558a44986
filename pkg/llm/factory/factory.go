package factory

import (
	"fmt"

	"speaksmart-be/pkg/llm"
	"speaksmart-be/pkg/llm/gemini"
	"speaksmart-be/pkg/llm/groq"
	"speaksmart-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured provider. An empty apiKey for a hosted
// provider yields (nil, nil): the caller treats that as "not configured".
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq", "":
		if apiKey == "" {
			return nil, nil
		}
		return groq.New(apiKey, modelName, baseURL)
	case "gemini":
		if apiKey == "" {
			return nil, nil
		}
		return gemini.NewGeminiProvider(apiKey, modelName, baseURL)
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		if modelName == "" {
			modelName = "llama3"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

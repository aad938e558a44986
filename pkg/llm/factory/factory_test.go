package factory

import (
	"testing"

	"speaksmart-be/pkg/llm/gemini"
	"speaksmart-be/pkg/llm/groq"
	"speaksmart-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantType any
		wantNil  bool
		wantErr  bool
	}{
		{name: "groq with key", provider: "groq", apiKey: "k", wantType: &groq.Provider{}},
		{name: "default is groq", provider: "", apiKey: "k", wantType: &groq.Provider{}},
		{name: "groq without key", provider: "groq", wantNil: true},
		{name: "gemini with key", provider: "gemini", apiKey: "k", wantType: &gemini.GeminiProvider{}},
		{name: "gemini without key", provider: "gemini", wantNil: true},
		{name: "ollama needs no key", provider: "ollama", wantType: &ollama.OllamaProvider{}},
		{name: "unknown", provider: "cohere", apiKey: "k", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.provider, "", "", tt.apiKey)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, p)
				return
			}
			assert.IsType(t, tt.wantType, p)
		})
	}
}

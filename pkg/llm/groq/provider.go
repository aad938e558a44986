// Package groq provides an LLM provider for Groq's OpenAI-compatible
// chat completions endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"speaksmart-be/pkg/llm"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.1-8b-instant"
)

// Provider implements llm.LLMProvider on top of the OpenAI SDK.
type Provider struct {
	client oai.Client
	model  string
}

var _ llm.LLMProvider = (*Provider)(nil)

// New constructs a Groq provider. An empty baseURL or model falls back to the
// defaults. The SDK's own retries are disabled; callers own the retry policy.
func New(apiKey, model, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("groq: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := oai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(llm.Options{Model: p.model}, opts...)

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(options.Model),
		Messages: convertMessages(history),
	}
	if options.Temperature != 0 {
		params.Temperature = oai.Float(options.Temperature)
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = oai.Int(int64(options.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			return "", &llm.StatusError{Provider: "groq", StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return "", fmt.Errorf("groq: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", llm.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func convertMessages(history []llm.Message) []oai.ChatCompletionMessageParamUnion {
	out := make([]oai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case "system":
			out = append(out, oai.SystemMessage(m.Content))
		case "assistant", "model":
			out = append(out, oai.AssistantMessage(m.Content))
		default:
			out = append(out, oai.UserMessage(m.Content))
		}
	}
	return out
}

package service

import (
	"context"
	"fmt"
	"strings"

	"speaksmart-be/internal/constant"
	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/pkg/llm"
	"speaksmart-be/pkg/retry"
)

type IChatService interface {
	Reply(ctx context.Context, messages []dto.ChatMessage) (string, error)
}

type chatService struct {
	runner *llmRunner
	logger logger.ILogger
}

// NewChatService accepts a nil provider; Reply then fails with
// ErrProviderNotConfigured.
func NewChatService(
	provider llm.LLMProvider,
	providerName string,
	retrier *retry.Retrier,
	metrics *observe.Metrics,
	log logger.ILogger,
) IChatService {
	s := &chatService{logger: log}
	if provider != nil {
		s.runner = &llmRunner{
			provider:     provider,
			providerName: providerName,
			retrier:      retrier,
			metrics:      metrics,
			logger:       log,
		}
	}
	return s
}

// Reply forwards the conversation as-is and returns the model's next turn.
// The last message must come from the user.
func (s *chatService) Reply(ctx context.Context, messages []dto.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", newValidationError("Invalid request: 'messages' must be an array.")
	}
	if messages[len(messages)-1].Role != constant.ChatMessageRoleUser {
		return "", newValidationError("Invalid request: the last message must have role 'user'.")
	}
	if s.runner == nil {
		return "", ErrProviderNotConfigured
	}

	history := make([]llm.Message, len(messages))
	for i, m := range messages {
		history[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	var reply string
	opts := []llm.Option{
		llm.WithTemperature(constant.ChatTemperature),
		llm.WithMaxTokens(constant.ChatMaxTokens),
	}
	err := s.runner.chat(ctx, "chat", history, opts, func(raw string) error {
		if strings.TrimSpace(raw) == "" {
			return llm.ErrEmptyResponse
		}
		reply = raw
		return nil
	})
	if err != nil {
		s.logger.Error("ChatService", "Chat completion failed", map[string]interface{}{
			"turns": len(messages),
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrChatFailed, err)
	}
	return reply, nil
}

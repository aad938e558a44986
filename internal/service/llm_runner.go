package service

import (
	"context"
	"errors"
	"time"

	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/pkg/llm"
	"speaksmart-be/pkg/llm/jsonparse"
	"speaksmart-be/pkg/retry"
)

// llmRunner calls the provider under the retry policy. accept parses and
// validates the raw text; a non-nil return makes the attempt retryable.
type llmRunner struct {
	provider     llm.LLMProvider
	providerName string
	retrier      *retry.Retrier
	metrics      *observe.Metrics
	logger       logger.ILogger
}

func (r *llmRunner) run(ctx context.Context, operation, prompt string, opts []llm.Option, accept func(raw string) error) error {
	return r.do(ctx, operation, func(ctx context.Context) (string, error) {
		return r.provider.Generate(ctx, prompt, opts...)
	}, accept)
}

// chat is run for a full conversation history.
func (r *llmRunner) chat(ctx context.Context, operation string, history []llm.Message, opts []llm.Option, accept func(raw string) error) error {
	return r.do(ctx, operation, func(ctx context.Context) (string, error) {
		return r.provider.Chat(ctx, history, opts...)
	}, accept)
}

func (r *llmRunner) do(ctx context.Context, operation string, call func(context.Context) (string, error), accept func(raw string) error) error {
	return r.retrier.Do(ctx, func(ctx context.Context, attempt int) error {
		start := time.Now()
		raw, err := call(ctx)
		elapsed := time.Since(start)

		if err != nil {
			kind := errorKind(err)
			r.metrics.RecordProviderRequest(ctx, r.providerName, operation, "error", elapsed)
			r.metrics.RecordProviderError(ctx, r.providerName, operation, kind)
			r.logger.Warn("LLM", "Upstream call failed", map[string]interface{}{
				"operation": operation,
				"attempt":   attempt,
				"kind":      kind,
				"error":     err.Error(),
			})
			if llm.IsRateLimited(err) {
				return retry.Fatal(err)
			}
			return err
		}
		r.metrics.RecordProviderRequest(ctx, r.providerName, operation, "ok", elapsed)

		if err := accept(raw); err != nil {
			kind := "invalid"
			var pe *jsonparse.ParseError
			if errors.As(err, &pe) {
				kind = "parse"
			}
			r.metrics.RecordProviderError(ctx, r.providerName, operation, kind)
			r.logger.Warn("LLM", "Rejected model output", map[string]interface{}{
				"operation": operation,
				"attempt":   attempt,
				"kind":      kind,
				"error":     err.Error(),
			})
			return err
		}
		return nil
	})
}

func errorKind(err error) string {
	switch {
	case llm.IsRateLimited(err):
		return "rate_limited"
	case llm.IsOverloaded(err):
		return "overloaded"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty"
	default:
		return "transport"
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/pkg/tts"
)

type ITTSService interface {
	Synthesize(ctx context.Context, text string) (*dto.AudioResult, error)
}

type ttsService struct {
	provider tts.Provider
	cache    *tts.AudioCache
	metrics  *observe.Metrics
	logger   logger.ILogger
}

// NewTTSService accepts a nil provider; Synthesize then fails with
// ErrTTSNotConfigured.
func NewTTSService(provider tts.Provider, cache *tts.AudioCache, metrics *observe.Metrics, log logger.ILogger) ITTSService {
	return &ttsService{
		provider: provider,
		cache:    cache,
		metrics:  metrics,
		logger:   log,
	}
}

func (s *ttsService) Synthesize(ctx context.Context, text string) (*dto.AudioResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newValidationError("Missing text input.")
	}
	if s.provider == nil {
		return nil, ErrTTSNotConfigured
	}

	voice := s.provider.Voice()
	if audio, ok := s.cache.Get(voice, text); ok {
		s.metrics.RecordCacheLookup(ctx, "tts", true)
		return &dto.AudioResult{Audio: audio, ContentType: "audio/mpeg", Cached: true}, nil
	}
	s.metrics.RecordCacheLookup(ctx, "tts", false)

	hits, misses := s.cache.Stats()
	s.logger.Info("TTSService", "Synthesizing speech", map[string]interface{}{
		"text":         truncateRunes(text, 50),
		"voice":        voice,
		"cache_hits":   hits,
		"cache_misses": misses,
	})

	start := time.Now()
	audio, err := s.provider.Synthesize(ctx, text)
	s.metrics.RecordTTS(ctx, time.Since(start))
	if err != nil {
		s.logger.Error("TTSService", "Synthesis failed", map[string]interface{}{"error": err.Error()})
		var se *tts.StatusError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTTSFailed, err)
	}

	s.cache.Put(voice, text, audio)
	return &dto.AudioResult{Audio: audio, ContentType: "audio/mpeg"}, nil
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

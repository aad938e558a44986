package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"speaksmart-be/internal/constant"
	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/internal/repository/contract"
	"speaksmart-be/pkg/llm"
	"speaksmart-be/pkg/llm/jsonparse"
	"speaksmart-be/pkg/retry"
)

// IQuestionService never fails for valid input: upstream trouble is answered
// with the canned fallback sets.
type IQuestionService interface {
	GenerateIELTS(ctx context.Context) (*dto.IELTSQuestionSet, error)
	GenerateJob(ctx context.Context, userField string) (*dto.QuestionListResponse, error)
	GenerateSpeaking(ctx context.Context, topic string) (*dto.QuestionListResponse, error)
}

// CuePicker returns an index in [0, n).
type CuePicker func(n int) int

type QuestionServiceOption func(*questionService)

func WithCuePicker(p CuePicker) QuestionServiceOption {
	return func(s *questionService) { s.pickCue = p }
}

type questionService struct {
	runner  *llmRunner
	cache   contract.IQuestionCacheRepository
	metrics *observe.Metrics
	logger  logger.ILogger
	pickCue CuePicker
}

// NewQuestionService accepts a nil provider, meaning no LLM key is configured;
// every request is then served from the fallback sets without network calls.
func NewQuestionService(
	provider llm.LLMProvider,
	providerName string,
	cache contract.IQuestionCacheRepository,
	retrier *retry.Retrier,
	metrics *observe.Metrics,
	log logger.ILogger,
	opts ...QuestionServiceOption,
) IQuestionService {
	s := &questionService{
		cache:   cache,
		metrics: metrics,
		logger:  log,
		pickCue: rand.IntN,
	}
	if provider != nil {
		s.runner = &llmRunner{
			provider:     provider,
			providerName: providerName,
			retrier:      retrier,
			metrics:      metrics,
			logger:       log,
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *questionService) GenerateIELTS(ctx context.Context) (*dto.IELTSQuestionSet, error) {
	cue := constant.IELTSCueCards[s.pickCue(len(constant.IELTSCueCards))]
	cacheKey := "ielts:" + cue

	var cached dto.IELTSQuestionSet
	if s.lookup(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	if s.runner == nil {
		return s.ieltsFallback(ctx, cue, "provider not configured"), nil
	}

	var set *dto.IELTSQuestionSet
	prompt := fmt.Sprintf(constant.IELTSGeneratePrompt, cue)
	err := s.runner.run(ctx, "generate_ielts", prompt, generateOptions(), func(raw string) error {
		var parsed dto.IELTSQuestionSet
		if err := jsonparse.Decode(raw, &parsed); err != nil {
			return err
		}
		if err := validateIELTSSet(&parsed); err != nil {
			return err
		}
		// The chosen cue wins regardless of what the model echoed.
		parsed.Part2 = []string{cue}
		parsed.Part3 = parsed.Part3[:constant.IELTSPart3Count]
		set = &parsed
		return nil
	})
	if err != nil {
		return s.ieltsFallback(ctx, cue, err.Error()), nil
	}

	s.store(ctx, cacheKey, set)
	return set, nil
}

func (s *questionService) GenerateJob(ctx context.Context, userField string) (*dto.QuestionListResponse, error) {
	field := strings.TrimSpace(userField)
	if field == "" {
		return nil, newValidationError("User field is required before generating interview questions.")
	}
	key := strings.ToLower(field)

	prompt := fmt.Sprintf(constant.JobGeneratePrompt, field, field)
	return s.generateList(ctx, constant.ModeJob, key, prompt, constant.JobFallbacks, func(qs []string) error {
		if len(qs) != constant.JobQuestionCount {
			return fmt.Errorf("expected %d questions, got %d", constant.JobQuestionCount, len(qs))
		}
		return nil
	})
}

func (s *questionService) GenerateSpeaking(ctx context.Context, topic string) (*dto.QuestionListResponse, error) {
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return nil, newValidationError("Topic is required before generating speaking questions.")
	}
	key := strings.ToLower(trimmed)

	prompt := fmt.Sprintf(constant.SpeakingGeneratePrompt, trimmed)
	return s.generateList(ctx, constant.ModeSpeaking, key, prompt, constant.SpeakingFallbacks, func(qs []string) error {
		if len(qs) < constant.SpeakingQuestionsMin || len(qs) > constant.SpeakingQuestionsMax {
			return fmt.Errorf("expected %d-%d questions, got %d", constant.SpeakingQuestionsMin, constant.SpeakingQuestionsMax, len(qs))
		}
		return nil
	})
}

func (s *questionService) generateList(
	ctx context.Context,
	mode, key, prompt string,
	fallbacks map[string][]string,
	validateCount func([]string) error,
) (*dto.QuestionListResponse, error) {
	cacheKey := mode + ":" + key

	var cached dto.QuestionListResponse
	if s.lookup(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	if s.runner == nil {
		return s.listFallback(ctx, mode, key, fallbacks, "provider not configured"), nil
	}

	var res *dto.QuestionListResponse
	err := s.runner.run(ctx, "generate_"+mode, prompt, generateOptions(), func(raw string) error {
		var parsed dto.QuestionListResponse
		if err := jsonparse.Decode(raw, &parsed); err != nil {
			return err
		}
		if err := validateCount(parsed.Questions); err != nil {
			return err
		}
		if err := nonBlank(parsed.Questions); err != nil {
			return err
		}
		res = &parsed
		return nil
	})
	if err != nil {
		return s.listFallback(ctx, mode, key, fallbacks, err.Error()), nil
	}

	s.store(ctx, cacheKey, res)
	return res, nil
}

func (s *questionService) ieltsFallback(ctx context.Context, cue, reason string) *dto.IELTSQuestionSet {
	s.metrics.RecordFallback(ctx, constant.ModeIELTS)
	s.logger.Warn("QuestionService", "Serving IELTS fallback set", map[string]interface{}{"cue": cue, "reason": reason})
	return &dto.IELTSQuestionSet{
		Part1: append([]string(nil), constant.IELTSFallbackPart1...),
		Part2: []string{cue},
		Part3: append([]string(nil), constant.IELTSFallbackPart3...),
	}
}

func (s *questionService) listFallback(ctx context.Context, mode, key string, fallbacks map[string][]string, reason string) *dto.QuestionListResponse {
	s.metrics.RecordFallback(ctx, mode)
	s.logger.Warn("QuestionService", "Serving fallback questions", map[string]interface{}{"mode": mode, "key": key, "reason": reason})

	qs, ok := fallbacks[key]
	if !ok {
		qs = fallbacks[constant.FallbackKeyGeneral]
	}
	return &dto.QuestionListResponse{Questions: append([]string(nil), qs...)}
}

func (s *questionService) lookup(ctx context.Context, key string, into any) bool {
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("QuestionService", "Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	if found {
		if err := json.Unmarshal(raw, into); err != nil {
			s.logger.Warn("QuestionService", "Discarding corrupt cache entry", map[string]interface{}{"key": key, "error": err.Error()})
			found = false
		}
	}
	s.metrics.RecordCacheLookup(ctx, "questions", found)
	return found
}

func (s *questionService) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.logger.Warn("QuestionService", "Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func generateOptions() []llm.Option {
	return []llm.Option{
		llm.WithTemperature(constant.GenerateTemperature),
		llm.WithMaxTokens(constant.GenerateMaxTokens),
	}
}

func validateIELTSSet(set *dto.IELTSQuestionSet) error {
	if len(set.Part1) != constant.IELTSPart1Count {
		return fmt.Errorf("expected %d part1 questions, got %d", constant.IELTSPart1Count, len(set.Part1))
	}
	if len(set.Part2) != constant.IELTSPart2Count {
		return fmt.Errorf("expected %d part2 cue, got %d", constant.IELTSPart2Count, len(set.Part2))
	}
	if len(set.Part3) < constant.IELTSPart3Count {
		return fmt.Errorf("expected %d part3 questions, got %d", constant.IELTSPart3Count, len(set.Part3))
	}
	if err := nonBlank(set.Part1); err != nil {
		return err
	}
	return nonBlank(set.Part3[:constant.IELTSPart3Count])
}

func nonBlank(qs []string) error {
	for i, q := range qs {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("question %d is blank", i+1)
		}
	}
	return nil
}

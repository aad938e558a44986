package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"speaksmart-be/internal/constant"
	"speaksmart-be/internal/dto"
	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/pkg/llm"
	"speaksmart-be/pkg/llm/jsonparse"
	"speaksmart-be/pkg/retry"
)

type IEvaluationService interface {
	Evaluate(ctx context.Context, mode, question, userAnswer string) (*dto.EvaluationResult, error)
}

type evaluationService struct {
	runner  *llmRunner
	metrics *observe.Metrics
	logger  logger.ILogger
}

// NewEvaluationService accepts a nil provider; Evaluate then fails with
// ErrProviderNotConfigured. Grades are never fabricated.
func NewEvaluationService(
	provider llm.LLMProvider,
	providerName string,
	retrier *retry.Retrier,
	metrics *observe.Metrics,
	log logger.ILogger,
) IEvaluationService {
	s := &evaluationService{metrics: metrics, logger: log}
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

// rawEvaluation uses pointers so a missing key is distinguishable from a zero
// value. A wrong JSON type fails the decode itself.
type rawEvaluation struct {
	Band         *float64 `json:"band"`
	Score        *float64 `json:"score"`
	Feedback     *string  `json:"feedback"`
	Band9Answer  *string  `json:"band9_answer"`
	GoodResponse *string  `json:"good_response"`
}

type gradingSpec struct {
	prompt      string
	temperature float64
	maxTokens   int
	minScore    float64
	maxScore    float64
}

func specFor(mode, question string) (gradingSpec, bool) {
	switch mode {
	case constant.ModeIELTS:
		prompt := constant.IELTSEvaluatePrompt
		if IsCueCard(question) {
			prompt = constant.IELTSCueCardEvaluatePrompt
		}
		return gradingSpec{prompt, constant.EvalIELTSTemperature, constant.EvalIELTSMaxTokens, 1, 9}, true
	case constant.ModeJob:
		return gradingSpec{constant.JobEvaluatePrompt, constant.EvalJobTemperature, constant.EvalMaxTokens, 1, 10}, true
	case constant.ModeSpeaking:
		return gradingSpec{constant.SpeakingEvaluatePrompt, constant.EvalSpeakingTemperature, constant.EvalMaxTokens, 1, 10}, true
	}
	return gradingSpec{}, false
}

// IsCueCard reports whether question is an IELTS Part 2 cue card.
func IsCueCard(question string) bool {
	return strings.HasPrefix(strings.TrimSpace(question), constant.CueCardPrefix)
}

func (s *evaluationService) Evaluate(ctx context.Context, mode, question, userAnswer string) (*dto.EvaluationResult, error) {
	spec, ok := specFor(mode, question)
	if !ok {
		return nil, newValidationError(fmt.Sprintf("Unsupported mode %q.", mode))
	}
	question = strings.TrimSpace(question)
	userAnswer = strings.TrimSpace(userAnswer)
	if question == "" || userAnswer == "" {
		return nil, newValidationError("Missing question or userAnswer in request body.")
	}
	if s.runner == nil {
		s.metrics.RecordEvaluation(ctx, mode, "not_configured")
		return nil, ErrProviderNotConfigured
	}

	var result *dto.EvaluationResult
	prompt := fmt.Sprintf(spec.prompt, question, userAnswer)
	opts := []llm.Option{llm.WithTemperature(spec.temperature), llm.WithMaxTokens(spec.maxTokens)}

	err := s.runner.run(ctx, "evaluate_"+mode, prompt, opts, func(raw string) error {
		var parsed rawEvaluation
		if err := jsonparse.Decode(raw, &parsed); err != nil {
			return err
		}
		res, err := toResult(mode, &parsed, spec)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		outcome := "unavailable"
		if llm.IsRateLimited(err) {
			outcome = "rate_limited"
		}
		var ex *retry.ExhaustedError
		if errors.As(err, &ex) {
			outcome = "exhausted"
		}
		s.metrics.RecordEvaluation(ctx, mode, outcome)
		s.logger.Error("EvaluationService", "Evaluation failed", map[string]interface{}{
			"mode":    mode,
			"outcome": outcome,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrEvaluationUnavailable, err)
	}

	s.metrics.RecordEvaluation(ctx, mode, "ok")
	return result, nil
}

func toResult(mode string, p *rawEvaluation, spec gradingSpec) (*dto.EvaluationResult, error) {
	score, feedback, model := p.Score, p.Feedback, p.GoodResponse
	scoreKey, modelKey := "score", "good_response"
	if mode == constant.ModeIELTS {
		score, model = p.Band, p.Band9Answer
		scoreKey, modelKey = "band", "band9_answer"
	}

	if score == nil {
		return nil, fmt.Errorf("missing %s", scoreKey)
	}
	if *score < spec.minScore || *score > spec.maxScore {
		return nil, fmt.Errorf("%s %v outside %v-%v", scoreKey, *score, spec.minScore, spec.maxScore)
	}
	if feedback == nil || strings.TrimSpace(*feedback) == "" {
		return nil, errors.New("missing feedback")
	}
	if model == nil || strings.TrimSpace(*model) == "" {
		return nil, fmt.Errorf("missing %s", modelKey)
	}

	return &dto.EvaluationResult{
		Mode:        mode,
		Score:       *score,
		Feedback:    *feedback,
		ModelAnswer: *model,
	}, nil
}

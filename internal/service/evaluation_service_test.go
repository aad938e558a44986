package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"speaksmart-be/internal/constant"
	"speaksmart-be/pkg/llm"
	"speaksmart-be/pkg/llm/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvaluationService(provider llm.LLMProvider) (IEvaluationService, *sleepRecorder) {
	retrier, rec := newTestRetrier()
	metrics, log := nopDeps()
	return NewEvaluationService(provider, "mock", retrier, metrics, log), rec
}

func TestEvaluate_JobSuccess(t *testing.T) {
	provider := mock.New(mock.Reply{Text: `{"score": 8, "feedback": "Clear and concise.", "good_response": "I am a backend engineer..."}`})
	svc, _ := newEvaluationService(provider)

	res, err := svc.Evaluate(context.Background(), constant.ModeJob, "Tell me about yourself.", "I am a software engineer with 3 years of experience.")
	require.NoError(t, err)
	assert.Equal(t, 8.0, res.Score)
	assert.Equal(t, "Clear and concise.", res.Feedback)
	assert.Equal(t, "I am a backend engineer...", res.ModelAnswer)
	assert.Contains(t, provider.Prompts()[0], "HR interviewer")
}

func TestEvaluate_EmptyInputsMakeNoCalls(t *testing.T) {
	provider := mock.New(mock.Reply{Text: "{}"})
	svc, _ := newEvaluationService(provider)

	for _, tc := range []struct{ q, a string }{{"", "answer"}, {"question", ""}, {"  ", "\t"}} {
		_, err := svc.Evaluate(context.Background(), constant.ModeSpeaking, tc.q, tc.a)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Zero(t, provider.Calls())
}

func TestEvaluate_UnknownMode(t *testing.T) {
	svc, _ := newEvaluationService(mock.New())
	_, err := svc.Evaluate(context.Background(), "toefl", "q", "a")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEvaluate_NoProvider(t *testing.T) {
	svc, _ := newEvaluationService(nil)
	_, err := svc.Evaluate(context.Background(), constant.ModeJob, "q", "a")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestEvaluate_RetriesWithIncreasingDelayThenUnavailable(t *testing.T) {
	provider := mock.New(mock.Reply{Err: &llm.StatusError{Provider: "mock", StatusCode: http.StatusServiceUnavailable}})
	svc, rec := newEvaluationService(provider)

	_, err := svc.Evaluate(context.Background(), constant.ModeIELTS, "Do you like music?", "Yes I do.")
	assert.ErrorIs(t, err, ErrEvaluationUnavailable)
	assert.Equal(t, 3, provider.Calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestEvaluate_RateLimitStopsImmediately(t *testing.T) {
	provider := mock.New(mock.Reply{Err: &llm.StatusError{Provider: "mock", StatusCode: http.StatusTooManyRequests}})
	svc, rec := newEvaluationService(provider)

	_, err := svc.Evaluate(context.Background(), constant.ModeJob, "q", "a")
	assert.ErrorIs(t, err, ErrEvaluationUnavailable)
	assert.True(t, llm.IsRateLimited(err))
	assert.Equal(t, 1, provider.Calls())
	assert.Empty(t, rec.delays)
}

func TestEvaluate_MalformedNeverReturnedAsSuccess(t *testing.T) {
	cases := map[string]string{
		"not json":       "I think the answer deserves an 8.",
		"missing key":    `{"score": 8, "feedback": "ok"}`,
		"wrong type":     `{"score": "8", "feedback": "ok", "good_response": "x"}`,
		"out of range":   `{"score": 11, "feedback": "ok", "good_response": "x"}`,
		"blank feedback": `{"score": 5, "feedback": "  ", "good_response": "x"}`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			provider := mock.New(mock.Reply{Text: reply})
			svc, _ := newEvaluationService(provider)

			res, err := svc.Evaluate(context.Background(), constant.ModeSpeaking, "q", "a")
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrEvaluationUnavailable)
			assert.Equal(t, 3, provider.Calls())
		})
	}
}

func TestEvaluate_IELTSBandAndCueCardPrompt(t *testing.T) {
	provider := mock.New(mock.Reply{Text: "```json\n{\"band\": 6.5, \"feedback\": \"Good range.\", \"band9_answer\": \"Well, the book...\"}\n```"})
	svc, _ := newEvaluationService(provider)

	res, err := svc.Evaluate(context.Background(), constant.ModeIELTS, constant.IELTSCueCards[7], "I read a cooking book.")
	require.NoError(t, err)
	assert.Equal(t, 6.5, res.Score)
	assert.Equal(t, "Well, the book...", res.ModelAnswer)
	assert.Contains(t, provider.Prompts()[0], "cue card points")
}

func TestEvaluate_IELTSBandAboveNineRejected(t *testing.T) {
	provider := mock.New(
		mock.Reply{Text: `{"band": 10, "feedback": "f", "band9_answer": "m"}`},
		mock.Reply{Text: `{"band": 9, "feedback": "f", "band9_answer": "m"}`},
	)
	svc, _ := newEvaluationService(provider)

	res, err := svc.Evaluate(context.Background(), constant.ModeIELTS, "Do you like tea?", "Yes.")
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.Score)
	assert.Equal(t, 2, provider.Calls())
}

func TestIsCueCard(t *testing.T) {
	assert.True(t, IsCueCard("  Describe a book you read"))
	assert.False(t, IsCueCard("What do you do for work?"))
}

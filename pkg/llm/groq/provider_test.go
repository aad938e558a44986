package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"speaksmart-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama-3.1-8b-instant",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"score\": 8}"}}]
}`

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("", "", "")
	assert.Error(t, err)
}

func TestChat_ReturnsFirstChoice(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	p, err := New("test-key", "", srv.URL+"/")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "grade this", llm.WithTemperature(0.5), llm.WithMaxTokens(600))
	require.NoError(t, err)
	assert.Equal(t, `{"score": 8}`, out)
	assert.Equal(t, DefaultModel, body["model"])
	assert.EqualValues(t, 600, body["max_tokens"])
}

func TestChat_RateLimitIsNotRetriedBySDK(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	p, err := New("test-key", "", srv.URL+"/")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, llm.IsRateLimited(err))
	assert.EqualValues(t, 1, calls.Load())
}

func TestConvertMessages_Roles(t *testing.T) {
	msgs := convertMessages([]llm.Message{
		{Role: "system", Content: "s"},
		{Role: "model", Content: "a"},
		{Role: "user", Content: "u"},
	})
	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfAssistant)
	assert.NotNil(t, msgs[2].OfUser)
}

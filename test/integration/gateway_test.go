package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"speaksmart-be/internal/bootstrap"
	"speaksmart-be/internal/config"
	"speaksmart-be/internal/constant"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noSleep struct{}

func (noSleep) Sleep(context.Context, time.Duration) error { return nil }

// upstream fakes the Groq chat completions endpoint.
type upstream struct {
	calls   atomic.Int32
	handler http.HandlerFunc
}

func newUpstream(t *testing.T, h http.HandlerFunc) (*upstream, *httptest.Server) {
	u := &upstream{handler: h}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		u.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama-3.1-8b-instant",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func newApp(t *testing.T, groqKey, baseURL string, overrides ...func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			CorsAllowedOrigins: "*",
		},
		Cache: config.CacheConfig{Backend: "memory"},
		Keys:  config.APIKeys{Groq: groqKey},
		Ai:    config.AIConfig{LLMProvider: "groq", LLMBaseURL: baseURL},
		Retry: config.RetryConfig{MaxAttempts: 3, BaseDelay: time.Second},
	}
	for _, override := range overrides {
		override(cfg)
	}

	container := bootstrap.NewContainer(cfg,
		bootstrap.WithLogger(logger.NewNopLogger()),
		bootstrap.WithSleeper(noSleep{}),
	)
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	return server.New(cfg, container).GetApp()
}

func post(t *testing.T, app *fiber.App, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, 5000)
	require.NoError(t, err)
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, out
}

func TestEvaluateJob_ReturnsProviderJSON(t *testing.T) {
	u, srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion(`{"score": 8, "feedback": "Clear and concise.", "good_response": "..."}`)))
	})
	app := newApp(t, "test-key", srv.URL+"/")

	res, body := post(t, app, "/api/evaluate-answers/job", map[string]string{
		"question":   "Tell me about yourself.",
		"userAnswer": "I am a software engineer with 3 years of experience.",
	})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"score": 8, "feedback": "Clear and concise.", "good_response": "..."}`, string(body))
	assert.EqualValues(t, 1, u.calls.Load())
}

func TestEvaluateJob_RateLimitedIs503WithoutRetry(t *testing.T) {
	u, srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens"}}`))
	})
	app := newApp(t, "test-key", srv.URL+"/")

	res, body := post(t, app, "/api/evaluate-answers/job", map[string]string{
		"question":   "Tell me about yourself.",
		"userAnswer": "I am a software engineer with 3 years of experience.",
	})

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	var errBody map[string]string
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.NotEmpty(t, errBody["error"])
	assert.EqualValues(t, 1, u.calls.Load())
}

func TestGenerateIELTS_WithoutKeyUsesFallback(t *testing.T) {
	app := newApp(t, "", "")

	res, body := post(t, app, "/api/generate-questions/ielts", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var set struct {
		Part1 []string `json:"part1"`
		Part2 []string `json:"part2"`
		Part3 []string `json:"part3"`
	}
	require.NoError(t, json.Unmarshal(body, &set))
	assert.Len(t, set.Part1, 5)
	require.Len(t, set.Part2, 1)
	assert.Len(t, set.Part3, 3)
	assert.Contains(t, constant.IELTSCueCards, set.Part2[0])
}

func TestEvaluate_Validation(t *testing.T) {
	app := newApp(t, "test-key", "http://127.0.0.1:1")

	res, body := post(t, app, "/api/evaluate-answers/speaking", map[string]string{"question": "Do you like tea?"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Missing question or userAnswer in request body."}`, string(body))
}

func TestEvaluate_NoKeyIs500(t *testing.T) {
	app := newApp(t, "", "")

	res, body := post(t, app, "/api/evaluate-answers/ielts", map[string]string{"question": "q", "userAnswer": "a"})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, string(body), `"error"`)
}

func TestGenerateJob_CachedAcrossRequests(t *testing.T) {
	u, srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		qs, _ := json.Marshal(map[string][]string{"questions": {
			"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10",
		}})
		_, _ = w.Write([]byte(completion(string(qs))))
	})
	app := newApp(t, "test-key", srv.URL+"/")

	_, first := post(t, app, "/api/generate-questions/job", map[string]string{"userField": "Nursing"})
	_, second := post(t, app, "/api/generate-questions/job", map[string]string{"userField": "nursing"})

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, u.calls.Load())
}

func TestGenerateSpeaking_BlankTopicIs400(t *testing.T) {
	app := newApp(t, "", "")

	res, body := post(t, app, "/api/generate-questions/speaking", map[string]string{"topic": "  "})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Topic is required before generating speaking questions."}`, string(body))
}

func TestTTS_NotConfigured(t *testing.T) {
	app := newApp(t, "", "")

	res, _ := post(t, app, "/api/tts", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	res, body := post(t, app, "/api/tts", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Missing text input."}`, string(body))
}

func TestHealthAndMetrics(t *testing.T) {
	app := newApp(t, "", "")

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, _ = post(t, app, "/api/generate-questions/ielts", nil)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Regexp(t, `speaksmart.questions.fallbacks`, string(body))
}

// ttsVendor fakes the two-step ttsopenai API. fetchStatus controls the
// audio download response.
func ttsVendor(t *testing.T, fetchStatus int) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tts-key", r.Header.Get("x-api-key"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/uapi/v1/text-to-speech":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Describe a place you visited.", body["input"])
			_, _ = w.Write([]byte(`{"result":{"uuid":"job-42"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/uapi/v1/text-to-speech/job-42":
			w.WriteHeader(fetchStatus)
			if fetchStatus == http.StatusOK {
				_, _ = w.Write([]byte("MP3DATA"))
			}
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func withTTS(baseURL string) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.Keys.TTS = "tts-key"
		cfg.TTS.BaseURL = baseURL
	}
}

func TestTTS_StreamsVendorAudio(t *testing.T) {
	app := newApp(t, "", "", withTTS(ttsVendor(t, http.StatusOK).URL))

	res, body := post(t, app, "/api/tts", map[string]string{"text": "Describe a place you visited."})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "audio/mpeg", res.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="speech.mp3"`, res.Header.Get("Content-Disposition"))
	assert.Equal(t, "no-cache", res.Header.Get("Cache-Control"))
	assert.Equal(t, []byte("MP3DATA"), body)
}

func TestTTS_VendorStatusPassedThrough(t *testing.T) {
	app := newApp(t, "", "", withTTS(ttsVendor(t, http.StatusNotFound).URL))

	res, body := post(t, app, "/api/tts", map[string]string{"text": "Describe a place you visited."})

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.JSONEq(t, `{"error":"TTS fetch failed: 404"}`, string(body))
}

func TestChat_ForwardsHistoryToUpstream(t *testing.T) {
	var got struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}
	_, srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("Use 'however' to contrast ideas.")))
	})
	app := newApp(t, "test-key", srv.URL+"/")

	res, body := post(t, app, "/api/ai", map[string]any{
		"messages": []map[string]string{
			{"role": "system", "content": "You are an English tutor."},
			{"role": "user", "content": "How do I contrast two ideas?"},
		},
	})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"success": true, "data": "Use 'however' to contrast ideas."}`, string(body))
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "How do I contrast two ideas?", got.Messages[1].Content)
	assert.InDelta(t, constant.ChatTemperature, got.Temperature, 1e-9)
	assert.Equal(t, constant.ChatMaxTokens, got.MaxTokens)
}

func TestChat_Validation(t *testing.T) {
	app := newApp(t, "test-key", "http://127.0.0.1:1/")

	res, body := post(t, app, "/api/ai", map[string]any{"messages": "hello"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request: 'messages' must be an array."}`, string(body))

	res, body = post(t, app, "/api/ai", map[string]any{"messages": []map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request: check messages."}`, string(body))

	res, body = post(t, app, "/api/ai", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": " "}},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request: check content."}`, string(body))
}

func TestChat_UpstreamFailureIsGeneric500(t *testing.T) {
	_, srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens"}}`))
	})
	app := newApp(t, "test-key", srv.URL+"/")

	res, body := post(t, app, "/api/ai", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.JSONEq(t, `{"error":"Something went wrong while processing your request."}`, string(body))
}

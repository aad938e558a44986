// Package client is an HTTP client for the SpeakSmart gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"speaksmart-be/pkg/practice"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusTooManyRequests
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ practice.Gateway = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) GenerateIELTS(ctx context.Context) (*practice.IELTSQuestions, error) {
	var out practice.IELTSQuestions
	if err := c.post(ctx, "/api/generate-questions/ielts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateJob(ctx context.Context, userField string) ([]string, error) {
	return c.questions(ctx, "/api/generate-questions/job", map[string]string{"userField": userField})
}

func (c *Client) GenerateSpeaking(ctx context.Context, topic string) ([]string, error) {
	return c.questions(ctx, "/api/generate-questions/speaking", map[string]string{"topic": topic})
}

// Plan fetches a question set for mode and builds the session plan. topic is
// the job field or speaking topic and is ignored for IELTS.
func (c *Client) Plan(ctx context.Context, mode, topic string) (*practice.QuestionPlan, error) {
	switch mode {
	case practice.ModeIELTS:
		set, err := c.GenerateIELTS(ctx)
		if err != nil {
			return nil, err
		}
		return practice.NewIELTSPlan(*set), nil
	case practice.ModeJob:
		qs, err := c.GenerateJob(ctx, topic)
		if err != nil {
			return nil, err
		}
		return practice.NewFlatPlan(mode, qs), nil
	case practice.ModeSpeaking:
		qs, err := c.GenerateSpeaking(ctx, topic)
		if err != nil {
			return nil, err
		}
		return practice.NewFlatPlan(mode, qs), nil
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}
}

type evaluationBody struct {
	Band         *float64 `json:"band"`
	Score        *float64 `json:"score"`
	Feedback     string   `json:"feedback"`
	Band9Answer  string   `json:"band9_answer"`
	GoodResponse string   `json:"good_response"`
}

func (c *Client) Evaluate(ctx context.Context, mode, question, answer string) (*practice.Evaluation, error) {
	var body evaluationBody
	req := map[string]string{"question": question, "userAnswer": answer}
	if err := c.post(ctx, "/api/evaluate-answers/"+mode, req, &body); err != nil {
		return nil, err
	}

	res := &practice.Evaluation{Feedback: body.Feedback}
	if mode == practice.ModeIELTS {
		if body.Band == nil {
			return nil, fmt.Errorf("evaluation response missing band")
		}
		res.Score = *body.Band
		res.ModelAnswer = body.Band9Answer
		return res, nil
	}
	if body.Score == nil {
		return nil, fmt.Errorf("evaluation response missing score")
	}
	res.Score = *body.Score
	res.ModelAnswer = body.GoodResponse
	return res, nil
}

// Speech returns synthesized audio for text.
func (c *Client) Speech(ctx context.Context, text string) ([]byte, error) {
	res, err := c.do(ctx, "/api/tts", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

func (c *Client) questions(ctx context.Context, path string, body any) ([]string, error) {
	var out struct {
		Questions []string `json:"questions"`
	}
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	res, err := c.do(ctx, path, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// do sends a JSON POST and converts non-2xx responses into *APIError.
func (c *Client) do(ctx context.Context, path string, body any) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, nil
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	apiErr := &APIError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(raw))}
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
		apiErr.Message = errBody.Error
	}
	return nil, apiErr
}

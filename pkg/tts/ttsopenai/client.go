package ttsopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"speaksmart-be/pkg/tts"
)

const (
	DefaultBaseURL = "https://api.ttsopenai.com"
	DefaultModel   = "tts-1"
	DefaultVoice   = "free_voice_1"

	speechPath = "/uapi/v1/text-to-speech"
)

type speechRequest struct {
	Model   string  `json:"model"`
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Input   string  `json:"input"`
}

type speechResponse struct {
	Result *struct {
		UUID string `json:"uuid"`
	} `json:"result"`
}

// Client talks to the two-step ttsopenai API: submit text, get a uuid, then
// download the audio by uuid.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	voice   string
	speed   float64
	client  *http.Client
}

var _ tts.Provider = (*Client)(nil)

func New(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("ttsopenai: apiKey must not be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   DefaultModel,
		voice:   DefaultVoice,
		speed:   1,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) Voice() string { return c.voice }

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	uuid, err := c.submit(ctx, text)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, uuid)
}

func (c *Client) submit(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(speechRequest{
		Model:   c.model,
		VoiceID: c.voice,
		Speed:   c.speed,
		Input:   text,
	})
	if err != nil {
		return "", fmt.Errorf("ttsopenai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+speechPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ttsopenai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ttsopenai: submit failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("ttsopenai: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &tts.StatusError{Stage: "submit", StatusCode: res.StatusCode, Body: string(body)}
	}

	var out speechResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("ttsopenai: decode response: %w", err)
	}
	if out.Result == nil || out.Result.UUID == "" {
		return "", errors.New("ttsopenai: response missing result uuid")
	}
	return out.Result.UUID, nil
}

func (c *Client) fetch(ctx context.Context, uuid string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+speechPath+"/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, fmt.Errorf("ttsopenai: create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ttsopenai: fetch failed: %w", err)
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("ttsopenai: read audio: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &tts.StatusError{Stage: "fetch", StatusCode: res.StatusCode, Body: string(audio)}
	}
	if len(audio) == 0 {
		return nil, tts.ErrEmptyAudio
	}
	return audio, nil
}

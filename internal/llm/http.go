package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config describes an OpenAI-compatible chat-completions endpoint. The
// defaults match the hosted providers used for planning (Groq et al.).
type Config struct {
	BaseURL      string
	Path         string // defaults to /v1/chat/completions
	APIKey       string
	Model        string
	ExtraHeaders map[string]string

	// Timeout bounds a single request; zero means DefaultRequestTimeout.
	Timeout time.Duration
}

const (
	DefaultRequestTimeout = 2 * time.Minute
	defaultPath           = "/v1/chat/completions"
)

// ConfigFromEnv reads SPECPLAN_BASE_URL, SPECPLAN_API_KEY and
// SPECPLAN_MODEL.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL: strings.TrimSpace(os.Getenv("SPECPLAN_BASE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("SPECPLAN_API_KEY")),
		Model:   strings.TrimSpace(os.Getenv("SPECPLAN_MODEL")),
	}
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("SPECPLAN_BASE_URL is not set")
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("SPECPLAN_API_KEY is not set")
	}
	if cfg.Model == "" {
		return Config{}, fmt.Errorf("SPECPLAN_MODEL is not set")
	}
	return cfg, nil
}

// HTTPClient talks to an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient normalizes the config and builds the client. Request
// deadlines come from per-call contexts, not the http.Client.
func NewHTTPClient(cfg Config) *HTTPClient {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if strings.TrimSpace(cfg.Path) == "" {
		cfg.Path = defaultPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	return &HTTPClient{cfg: cfg, client: &http.Client{Timeout: 0}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs one blocking completion call and returns the first
// choice's text.
func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+c.cfg.Path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.cfg.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractErrorMessage(raw)
		return "", ErrorFromHTTPStatus(resp.StatusCode, msg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", ErrorFromHTTPStatus(resp.StatusCode, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func extractErrorMessage(raw []byte) string {
	var doc struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil {
		if doc.Error != nil && doc.Error.Message != "" {
			return doc.Error.Message
		}
		if doc.Message != "" {
			return doc.Message
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

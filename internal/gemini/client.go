package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	// DefaultBaseURL is the public Generative Language API host.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.0-flash-exp"

	defaultHTTPTimeout = 30 * time.Second
	errorSnippetBytes  = 512
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("gemini: api key not configured")
	// ErrEmptyResponse is returned when the response carries no candidate text.
	ErrEmptyResponse = errors.New("gemini: empty response")
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Config captures the runtime settings required to talk to Gemini.
type Config struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// GenerationConfig carries the sampling parameters of one call.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Client issues generateContent requests.
type Client struct {
	cfg        Config
	keys       KeyProvider
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a client. A nil KeyProvider behaves as an unconfigured key.
func NewClient(cfg Config, keys KeyProvider, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if keys == nil {
		keys = StaticKey("")
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		keys:       keys,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = DefaultModel
	}
	return client
}

// Configured reports whether an API key is currently available.
func (c *Client) Configured(ctx context.Context) bool {
	key, err := c.keys.APIKey(ctx)
	return err == nil && strings.TrimSpace(key) != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a single prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string, generation GenerationConfig) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("gemini generate: prompt required")
	}
	key, err := c.keys.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini generate: resolve api key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrNotConfigured
	}

	body, err := codec.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generation,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: encode request: %w", err)
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model))
	if err != nil {
		return "", fmt.Errorf("gemini generate: parse url: %w", err)
	}
	params := url.Values{}
	params.Set("key", key)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini generate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("gemini generate: execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini generate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		message := http.StatusText(resp.StatusCode)
		var apiErr apiErrorBody
		if codec.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		return "", fmt.Errorf("gemini generate: http %d (latency=%v): %s", resp.StatusCode, latency, message)
	}

	var payload generateResponse
	if err := codec.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("gemini generate: decode response: %w (snippet=%s)", err, snippet(raw))
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func snippet(raw []byte) string {
	if len(raw) > errorSnippetBytes {
		raw = raw[:errorSnippetBytes]
	}
	return strings.TrimSpace(string(raw))
}

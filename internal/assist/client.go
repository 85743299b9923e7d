// Package assist provides the AI feedstock assistant: a Gemini client, the
// prompt templates that enumerate the expected parameter schema, and the
// defensive extractor that salvages parameter values from the model's
// free-text response.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"digestsim/internal/logging"
)

// Classified failures for the AI path. The caller decides presentation; the
// manual parameter path is never affected by any of these.
var (
	// ErrNoAPIKey means the credential is absent and AI assistance is
	// disabled for this process.
	ErrNoAPIKey = errors.New("gemini API key not configured")

	// ErrNoCompletion means the service answered but returned no usable text.
	ErrNoCompletion = errors.New("no completion returned")
)

// Client produces a free-text completion for a prompt. Implementations must
// be safe for sequential reuse across calls.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	EnableSearch bool
}

// DefaultGeminiConfig returns sensible defaults for the given key.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:       apiKey,
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		Model:        "gemini-2.0-pro-exp-02-05",
		Timeout:      2 * time.Minute,
		EnableSearch: true,
	}
}

// GeminiClient implements Client against the Gemini generateContent API.
type GeminiClient struct {
	apiKey       string
	baseURL      string
	model        string
	enableSearch bool
	httpClient   *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewGeminiClient creates a client from config, filling blank fields from
// DefaultGeminiConfig.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	def := DefaultGeminiConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = def.BaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return &GeminiClient{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		enableSearch: cfg.EnableSearch,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Complete sends a prompt and returns the completion text. Rate-limit
// responses are retried with exponential backoff; everything else fails fast
// so the caller can surface the error once without corrupting prior state.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	// Apply the client timeout if the context has no deadline of its own.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.AssistDebug("[Gemini] Complete: model=%s prompt_len=%d", c.model, len(prompt))

	// Pace requests: at most one every 100ms.
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{
				Role:  "user",
				Parts: []GeminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     1.0,
			MaxOutputTokens: 65536,
		},
	}
	if c.enableSearch {
		reqBody.Tools = []GeminiTool{{GoogleSearch: &GeminiGoogleSearch{}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			logging.AssistError("[Gemini] Complete: status %d: %s", resp.StatusCode, string(body))
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var geminiResp GeminiResponse
		if err := json.Unmarshal(body, &geminiResp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}

		if geminiResp.Error != nil {
			return "", fmt.Errorf("API error: %s", geminiResp.Error.Message)
		}

		if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
			return "", ErrNoCompletion
		}

		var result strings.Builder
		for _, part := range geminiResp.Candidates[0].Content.Parts {
			result.WriteString(part.Text)
		}
		response := strings.TrimSpace(result.String())
		if response == "" {
			return "", ErrNoCompletion
		}

		logging.Assist("[Gemini] Complete: finished in %v response_len=%d", time.Since(startTime), len(response))
		return response, nil
	}

	logging.AssistError("[Gemini] Complete: max retries exceeded after %v: %v", time.Since(startTime), lastErr)
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

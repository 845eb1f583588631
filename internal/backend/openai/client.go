// Package openai implements service.Responder with the OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jarvis/internal/config"
)

const (
	// MsgApology is the reply whenever a completion cannot be produced.
	MsgApology = "I'm sorry, I couldn't process that request."

	// RequestTimeout bounds one Respond call, retries included.
	RequestTimeout = 30 * time.Second

	maxRetries   = 3
	initialDelay = 1 * time.Second
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")

// Client calls the chat completions endpoint.
type Client struct {
	settings   config.OpenAISettings
	httpClient *http.Client
	retryDelay time.Duration
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
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// New creates a client from settings.
func New(settings config.OpenAISettings) *Client {
	return NewWithHTTPClient(settings, &http.Client{})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(settings config.OpenAISettings, httpClient *http.Client) *Client {
	return &Client{
		settings:   settings,
		httpClient: httpClient,
		retryDelay: initialDelay,
	}
}

// Respond implements service.Responder. Failures are logged to the logger
// carried by ctx and answered with MsgApology.
func (c *Client) Respond(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	reply, err := c.Complete(ctx, prompt)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("component", "openai").Msg("Error communicating with OpenAI")
		return MsgApology
	}
	return reply
}

// Complete returns the trimmed first choice for prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.settings.APIKey == "" {
		return "", ErrNoAPIKey
	}

	req := chatRequest{
		Model: c.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.settings.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.settings.MaxTokens,
		Temperature: c.settings.Temperature,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	url := strings.TrimRight(c.settings.BaseURL, "/") + "/chat/completions"

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1x, 2x the base delay
			delay := c.retryDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, string(respBody))
			}

			// Retry on rate limit (429) or server errors (5xx)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var chatResp chatResponse
		if err := json.Unmarshal(respBody, &chatResp); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if len(chatResp.Choices) == 0 {
			return "", fmt.Errorf("no choices returned")
		}
		return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}

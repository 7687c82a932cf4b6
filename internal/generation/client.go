package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// CompletionClient is the sole call path into the external completion
// provider. It speaks the OpenAI-style chat-completions protocol and
// smooths outbound traffic with a shared rate limiter so a burst of
// users cannot trip the provider's own limits.
type CompletionClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	limiter *rate.Limiter
}

// Options control one completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Result is the raw provider answer plus call metadata. Latency and
// token usage are recorded for every attempt, success or failure.
type Result struct {
	Text       string
	TokensUsed int
	Model      string
	Latency    time.Duration
}

func NewCompletionClient(baseURL, apiKey, model string, timeout time.Duration, rps float64) *CompletionClient {
	if rps <= 0 {
		rps = 2
	}
	return &CompletionClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one system+user instruction pair to the provider.
// Provider failures come back as distinguishable error kinds; the
// Result is non-nil whenever latency metadata is available.
func (c *CompletionClient) Complete(ctx context.Context, system, user string, opts Options) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("limiter wait: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return &Result{Latency: latency}, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	res := &Result{Latency: latency}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return res, fmt.Errorf("%w: status %d", ErrProviderAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return res, fmt.Errorf("%w: status %d", ErrProviderRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return res, fmt.Errorf("%w: status %d: %s", ErrProviderBadResponse, resp.StatusCode, snippet)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return res, fmt.Errorf("%w: decode: %v", ErrProviderBadResponse, err)
	}
	if out.Error != nil {
		return res, fmt.Errorf("%w: %s", ErrProviderBadResponse, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return res, fmt.Errorf("%w: no choices", ErrProviderBadResponse)
	}

	res.Text = out.Choices[0].Message.Content
	res.TokensUsed = out.Usage.TotalTokens
	res.Model = out.Model
	if res.Model == "" {
		res.Model = c.model
	}
	return res, nil
}

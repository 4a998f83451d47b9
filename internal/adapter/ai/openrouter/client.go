// Package openrouter implements the narrative analyzer over the OpenRouter
// chat-completions API (OpenAI-compatible).
package openrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/ai"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

const providerName = "openrouter"

// Client implements domain.NarrativeAnalyzer against OpenRouter.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a client with a bounded request timeout.
func New(cfg config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, hc: &http.Client{Timeout: timeout}}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeCategories sends one batched prompt and decodes the category map.
// Transient HTTP failures are retried with exponential backoff inside the
// caller's deadline.
func (c *Client) AnalyzeCategories(ctx domain.Context, req domain.NarrativeRequest) (map[string]domain.Narrative, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY missing", domain.ErrInvalidArgument)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.OpenRouterModel,
		Messages: []chatMessage{
			{Role: "system", Content: ai.SystemPrompt},
			{Role: "user", Content: ai.BuildBatchPrompt(req)},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrInternal, err)
	}

	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier

	var content string
	op := func() error {
		content, err = c.chatOnce(ctx, body)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		observability.AIRequest(providerName, "error")
		return nil, err
	}

	narratives, err := ai.ParseBatch(content)
	if err != nil {
		observability.AIRequest(providerName, "unparsable")
		return nil, err
	}
	observability.AIRequest(providerName, "ok")
	return narratives, nil
}

func (c *Client) chatOnce(ctx domain.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenRouterBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err))
		}
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("openrouter chat failed",
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.cfg.OpenRouterModel))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(fmt.Errorf("openrouter: status %d", resp.StatusCode))
		}
		return "", fmt.Errorf("openrouter: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: decode response: %v", domain.ErrSchemaInvalid, err))
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("%w: no choices", domain.ErrSchemaInvalid))
	}
	return parsed.Choices[0].Message.Content, nil
}

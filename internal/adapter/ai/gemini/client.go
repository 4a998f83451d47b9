// Package gemini implements the narrative analyzer over the Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/ai"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.0-flash"
)

// Client implements domain.NarrativeAnalyzer against the Gemini API.
type Client struct {
	client    *genai.Client
	modelName string
}

// New constructs a Gemini-backed analyzer.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Client{client: client, modelName: model}, nil
}

// AnalyzeCategories sends one batched prompt and decodes the category map.
func (c *Client) AnalyzeCategories(ctx domain.Context, req domain.NarrativeRequest) (map[string]domain.Narrative, error) {
	prompt := ai.SystemPrompt + "\n\n" + ai.BuildBatchPrompt(req)

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		observability.AIRequest(providerName, "error")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	narratives, err := ai.ParseBatch(builder.String())
	if err != nil {
		observability.AIRequest(providerName, "unparsable")
		return nil, err
	}
	observability.AIRequest(providerName, "ok")
	return narratives, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrInsightUnavailable wraps any failure of the text-generation backend.
var ErrInsightUnavailable = errors.New("insight generation unavailable")

// InsightGenerator turns a free-text prompt into generated text.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, prompt string) (string, error)
}

const insightTimeout = 30 * time.Second

// GeminiClient forwards prompts to a Gemini model through the Gen AI SDK.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	return newGeminiClient(ctx, apiKey, model, "")
}

// newGeminiClient overrides the API endpoint when baseURL is set.
func newGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model, timeout: insightTimeout}, nil
}

func (c *GeminiClient) GenerateInsight(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInsightUnavailable, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrInsightUnavailable)
	}
	return text, nil
}

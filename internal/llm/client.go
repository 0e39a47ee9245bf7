// Package llm provides the resilient generation layer: a provider client
// abstraction, a retrying service with bounded backoff, best-effort JSON
// extraction, and a deterministic local fallback.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/gitfolio/internal/types"
)

// Client is an abstraction over generation providers.
type Client interface {
	// Generate sends the prompt and returns the raw text response.
	Generate(ctx context.Context, prompt types.GenerationPrompt) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client. The handle is constructed
// once at startup and shared read-only across requests.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt to Gemini and returns the raw text response.
func (c *GeminiClient) Generate(ctx context.Context, prompt types.GenerationPrompt) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(prompt.Temperature)
	if prompt.MaxTokens > 0 {
		model.SetMaxOutputTokens(prompt.MaxTokens)
	}

	var parts []genai.Part
	for _, m := range prompt.Messages {
		parts = append(parts, genai.Text(m.Text))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

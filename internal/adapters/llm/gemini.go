package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a domain.Assistant backed by the Gemini API
// (API-key backend, not Vertex).
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("a Gemini API key is required")
	}
	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Reply implements domain.Assistant. Each call is a single independent
// turn: only the persona and the current message go out, never the
// visible thread.
func (g *GeminiClient) Reply(ctx context.Context, userMessage string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(userMessage, genai.RoleUser),
	}

	temp := float32(0.8)
	topP := float32(0.95)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	// May be empty; the assistant service substitutes the canned reply.
	return res.Text(), nil
}

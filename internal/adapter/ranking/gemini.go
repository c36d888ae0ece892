package ranking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GeminiRanker sends ranking prompts to the Gemini API. The constructor
// fails when no credential is configured; callers treat a nil ranker as
// "reranking disabled".
type GeminiRanker struct {
	client    *genai.Client
	modelName string
}

// NewGeminiRanker creates a ranker backed by the Gemini API. The key is
// read from the given environment variable.
func NewGeminiRanker(ctx context.Context, apiKeyEnv, model string) (*GeminiRanker, error) {
	apiKey := strings.TrimSpace(os.Getenv(apiKeyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
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

	return &GeminiRanker{client: client, modelName: model}, nil
}

// Rank sends the prompt and returns the concatenated text of the first
// response candidates.
func (r *GeminiRanker) Rank(ctx context.Context, prompt string) (string, error) {
	if r == nil || r.client == nil {
		return "", errors.New("gemini ranker is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// ModelName returns the name of the ranking model.
func (r *GeminiRanker) ModelName() string {
	if r == nil {
		return ""
	}
	return r.modelName
}

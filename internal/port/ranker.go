package port

import "context"

// Ranker is an external ranking service: prompt in, free text out.
// Availability is never guaranteed; callers must treat any error as a
// signal to fall back to rule-based ordering.
type Ranker interface {
	// Rank sends the ranking prompt and returns the raw model response.
	Rank(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the ranking model.
	ModelName() string
}

package server

import (
	"fmt"
	"strings"

	"assessrec/internal/domain"
)

const (
	defaultTopK       = 20
	defaultFinalCount = 10

	// Response-only constants; the catalog source supports adaptive and
	// remote delivery across the board.
	adaptiveSupport = "Yes"
	remoteSupport   = "Yes"
	defaultDuration = 30
)

// RecommendationRequest is the POST /recommend body.
type RecommendationRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	FinalCount int    `json:"final_count"`
}

// Validate applies defaults for omitted fields and rejects out-of-range
// values before any pipeline work.
func (r *RecommendationRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}
	if r.TopK == 0 {
		r.TopK = defaultTopK
	}
	if r.TopK < 1 || r.TopK > 50 {
		return fmt.Errorf("%w: top_k must be in [1,50]", domain.ErrInvalidInput)
	}
	if r.FinalCount == 0 {
		r.FinalCount = defaultFinalCount
	}
	if r.FinalCount < 5 || r.FinalCount > 10 {
		return fmt.Errorf("%w: final_count must be in [5,10]", domain.ErrInvalidInput)
	}
	return nil
}

// AssessmentResponse is one recommended assessment.
type AssessmentResponse struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	AdaptiveSupport string   `json:"adaptive_support"`
	Description     string   `json:"description"`
	Duration        int      `json:"duration"`
	RemoteSupport   string   `json:"remote_support"`
	TestType        []string `json:"test_type"`
}

// RecommendationResponse is the POST /recommend reply.
type RecommendationResponse struct {
	RecommendedAssessments []AssessmentResponse `json:"recommended_assessments"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func toAssessmentResponse(c domain.Candidate) AssessmentResponse {
	return AssessmentResponse{
		Name:            c.Name,
		URL:             c.URL,
		AdaptiveSupport: adaptiveSupport,
		Description:     c.Description,
		Duration:        defaultDuration,
		RemoteSupport:   remoteSupport,
		TestType:        []string{c.TestType.DisplayLabel()},
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"assessrec/internal/domain"
)

// Pipeline is the surface the server needs from the application context:
// readiness and the full retrieve-rerank-balance run. *app.App satisfies it.
type Pipeline interface {
	Ready() bool
	Recommend(ctx context.Context, query string, topK, finalCount int) ([]domain.Candidate, error)
}

// Server is the HTTP layer over the recommendation pipeline.
type Server struct {
	pipeline Pipeline
	log      *zap.Logger
	router   chi.Router
}

// New builds the HTTP server with its routes.
func New(pipeline Pipeline, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{pipeline: pipeline, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/recommend", s.handleRecommend)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Assessment Recommendation System",
		"status":  "operational",
		"endpoints": map[string]string{
			"health":    "GET /health",
			"recommend": "POST /recommend",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.pipeline.Ready() {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "unhealthy", Message: "System not initialized"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Message: "System operational"})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "malformed request body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	if !s.pipeline.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "System not ready"})
		return
	}

	recommended, err := s.pipeline.Recommend(r.Context(), req.Query, req.TopK, req.FinalCount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// External contract: between 5 and 10 recommendations when available.
	limit := max(5, min(10, req.FinalCount))
	if len(recommended) > limit {
		recommended = recommended[:limit]
	}

	resp := RecommendationResponse{RecommendedAssessments: make([]AssessmentResponse, len(recommended))}
	for i, c := range recommended {
		resp.RecommendedAssessments[i] = toAssessmentResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeError maps pipeline failures onto the response taxonomy. Anything
// unexpected becomes a generic 500; detail stays in the server log.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrEmbedding):
		s.log.Warn("service unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "System not ready"})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	default:
		s.log.Error("recommendation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package port

import "assessrec/internal/domain"

// Retriever produces relevance-ordered candidates for a hiring query.
type Retriever interface {
	// Retrieve returns up to topK candidates above the similarity floor,
	// ordered by descending similarity.
	Retrieve(query string, topK int) ([]domain.Candidate, error)
}

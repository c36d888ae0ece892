package retriever

import (
	"fmt"

	"assessrec/internal/domain"
	"assessrec/internal/port"
)

// SemanticRetriever embeds a hiring query and searches the vector index
// for the closest catalog entries. Results below the similarity floor are
// cut off; the index returns scores in descending order, so the cutoff is
// a short-circuit rather than a full filter.
type SemanticRetriever struct {
	vectorStore     port.VectorStore
	embedder        port.Embedder
	catalog         port.Catalog
	similarityFloor float64
}

func NewSemanticRetriever(
	vectorStore port.VectorStore,
	embedder port.Embedder,
	catalog port.Catalog,
	similarityFloor float64,
) *SemanticRetriever {
	return &SemanticRetriever{
		vectorStore:     vectorStore,
		embedder:        embedder,
		catalog:         catalog,
		similarityFloor: similarityFloor,
	}
}

// Retrieve returns up to topK candidates above the similarity floor,
// ordered by descending similarity. An empty index or a top result below
// the floor yields an empty list, not an error.
func (r *SemanticRetriever) Retrieve(query string, topK int) ([]domain.Candidate, error) {
	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: provider returned empty vector", domain.ErrEmbedding)
	}

	results, err := r.vectorStore.Search(embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(results))
	for _, result := range results {
		if result.Score < r.similarityFloor {
			break
		}
		rec, ok := r.catalog.Get(result.ID)
		if !ok {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Assessment:      rec,
			SimilarityScore: result.Score,
		})
		if len(candidates) >= topK {
			break
		}
	}

	return candidates, nil
}

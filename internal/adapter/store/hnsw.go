package store

import (
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"

	"assessrec/internal/port"
)

// HNSWStore is an in-memory approximate nearest neighbor index over the
// catalog embeddings, using the pure Go coder/hnsw graph. Vectors are
// normalized on insert so the cosine distance maps directly to the
// similarity score expected by the retriever.
type HNSWStore struct {
	mu        sync.RWMutex
	graph     *hnsw.Graph[uint64]
	dimension int

	idMap   map[string]uint64
	keyMap  map[uint64]string
	nextKey uint64
}

// NewHNSWStore creates an empty HNSW index for vectors of the given
// dimension.
func NewHNSWStore(dimension int) *HNSWStore {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	return &HNSWStore{
		graph:     graph,
		dimension: dimension,
		idMap:     make(map[string]uint64),
		keyMap:    make(map[uint64]string),
	}
}

// Upsert adds or updates vectors in the index. Updated IDs are lazily
// deleted: the old graph node is orphaned rather than removed.
func (s *HNSWStore) Upsert(items []port.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}

		if existingKey, exists := s.idMap[item.ID]; exists {
			delete(s.keyMap, existingKey)
			delete(s.idMap, item.ID)
		}

		key := s.nextKey
		s.nextKey++

		vec := make([]float32, len(item.Vector))
		copy(vec, item.Vector)
		normalizeInPlace(vec)

		s.graph.Add(hnsw.MakeNode(key, vec))
		s.idMap[item.ID] = key
		s.keyMap[key] = item.ID
	}

	return nil
}

// Search finds the k nearest vectors to the query, ordered by descending
// cosine similarity.
func (s *HNSWStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	if s.graph.Len() == 0 || k <= 0 {
		return nil, nil
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeInPlace(normalized)

	nodes := s.graph.Search(normalized, k)

	results := make([]port.VectorResult, 0, len(nodes))
	for _, node := range nodes {
		id, exists := s.keyMap[node.Key]
		if !exists {
			// Orphaned by a lazy delete.
			continue
		}
		distance := s.graph.Distance(normalized, node.Value)
		results = append(results, port.VectorResult{
			ID:    id,
			Score: 1 - float64(distance), // cosine distance -> similarity
		})
	}

	return results, nil
}

// Count returns the number of live vectors in the index.
func (s *HNSWStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idMap), nil
}

func normalizeInPlace(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

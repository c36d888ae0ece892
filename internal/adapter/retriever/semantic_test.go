package retriever

import (
	"errors"
	"fmt"
	"testing"

	"assessrec/internal/domain"
	"assessrec/internal/port"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int    { return len(s.vector) }
func (s *stubEmbedder) ModelName() string { return "stub" }

type stubIndex struct {
	results []port.VectorResult
}

func (s *stubIndex) Upsert(items []port.VectorItem) error { return nil }

func (s *stubIndex) Search(query []float32, k int) ([]port.VectorResult, error) {
	if k > len(s.results) {
		k = len(s.results)
	}
	return s.results[:k], nil
}

func (s *stubIndex) Count() (int, error) { return len(s.results), nil }

type stubCatalog map[string]domain.Assessment

func (c stubCatalog) Get(url string) (domain.Assessment, bool) {
	rec, ok := c[url]
	return rec, ok
}

func (c stubCatalog) List() []domain.Assessment { return nil }
func (c stubCatalog) Count() int                { return len(c) }

func fixtureCatalog(n int) stubCatalog {
	cat := make(stubCatalog, n)
	for i := 0; i < n; i++ {
		url := fmt.Sprintf("https://example.com/a%d", i)
		cat[url] = domain.Assessment{Name: fmt.Sprintf("a%d", i), URL: url, TestType: domain.TestTypeKnowledge}
	}
	return cat
}

func TestRetrieveAppliesFloor(t *testing.T) {
	index := &stubIndex{results: []port.VectorResult{
		{ID: "https://example.com/a0", Score: 0.90},
		{ID: "https://example.com/a1", Score: 0.50},
		{ID: "https://example.com/a2", Score: 0.19},
		{ID: "https://example.com/a3", Score: 0.95}, // below-floor cutoff must not resume
	}}

	r := NewSemanticRetriever(index, &stubEmbedder{vector: []float32{1, 0}}, fixtureCatalog(4), 0.20)

	got, err := r.Retrieve("query", 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates above the floor, got %d", len(got))
	}
	for _, c := range got {
		if c.SimilarityScore < 0.20 {
			t.Errorf("candidate %s below floor: %v", c.URL, c.SimilarityScore)
		}
	}
}

func TestRetrieveTopResultBelowFloor(t *testing.T) {
	index := &stubIndex{results: []port.VectorResult{
		{ID: "https://example.com/a0", Score: 0.10},
	}}

	r := NewSemanticRetriever(index, &stubEmbedder{vector: []float32{1, 0}}, fixtureCatalog(1), 0.20)

	got, err := r.Retrieve("query", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d candidates", len(got))
	}
}

func TestRetrieveEmptyIndex(t *testing.T) {
	r := NewSemanticRetriever(&stubIndex{}, &stubEmbedder{vector: []float32{1, 0}}, fixtureCatalog(0), 0.20)

	got, err := r.Retrieve("query", 10)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d candidates", len(got))
	}
}

func TestRetrieveCapsAtTopK(t *testing.T) {
	var results []port.VectorResult
	for i := 0; i < 10; i++ {
		results = append(results, port.VectorResult{
			ID:    fmt.Sprintf("https://example.com/a%d", i),
			Score: 0.9 - float64(i)*0.01,
		})
	}

	r := NewSemanticRetriever(&stubIndex{results: results}, &stubEmbedder{vector: []float32{1, 0}}, fixtureCatalog(10), 0.20)

	got, err := r.Retrieve("query", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 candidates, got %d", len(got))
	}
}

func TestRetrieveEmbeddingError(t *testing.T) {
	r := NewSemanticRetriever(&stubIndex{}, &stubEmbedder{err: errors.New("provider down")}, fixtureCatalog(0), 0.20)

	_, err := r.Retrieve("query", 10)
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("expected ErrEmbedding, got %v", err)
	}
}

func TestRetrieveSkipsUnknownIDs(t *testing.T) {
	index := &stubIndex{results: []port.VectorResult{
		{ID: "https://example.com/gone", Score: 0.90},
		{ID: "https://example.com/a0", Score: 0.80},
	}}

	r := NewSemanticRetriever(index, &stubEmbedder{vector: []float32{1, 0}}, fixtureCatalog(1), 0.20)

	got, err := r.Retrieve("query", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/a0" {
		t.Errorf("expected only the known candidate, got %+v", got)
	}
}

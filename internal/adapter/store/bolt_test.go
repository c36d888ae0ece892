package store

import (
	"math"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"

	"assessrec/internal/port"
)

func openTestDB(t *testing.T, path string) *bbolt.DB {
	t.Helper()
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestBoltVectorStoreSearchOrder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	db := openTestDB(t, dbPath)
	defer db.Close()

	s, err := NewBoltVectorStore(db, 2)
	if err != nil {
		t.Fatal(err)
	}

	items := []port.VectorItem{
		{ID: "far", Vector: []float32{0, 1}},
		{ID: "near", Vector: []float32{1, 0}},
		{ID: "middle", Vector: []float32{1, 1}},
	}
	if err := s.Upsert(items); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{"near", "middle", "far"}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, results[i].ID)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order at %d", i)
		}
	}
}

func TestBoltVectorStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")

	db := openTestDB(t, dbPath)
	s, err := NewBoltVectorStore(db, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1, 0}}}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	// Reopen: vectors must survive.
	db = openTestDB(t, dbPath)
	defer db.Close()
	s, err = NewBoltVectorStore(db, 2)
	if err != nil {
		t.Fatal(err)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 vector after reload, got %d", count)
	}

	items := s.Items()
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("unexpected items after reload: %+v", items)
	}
}

func TestBoltVectorStoreDimensionMismatch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	db := openTestDB(t, dbPath)
	defer db.Close()

	s, err := NewBoltVectorStore(db, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1, 0, 0}}}); err == nil {
		t.Error("expected error for wrong vector dimension on upsert")
	}
	if _, err := s.Search([]float32{1}, 3); err == nil {
		t.Error("expected error for wrong query dimension on search")
	}
}

func TestBoltVectorStoreUpsertOverwrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	db := openTestDB(t, dbPath)
	defer db.Close()

	s, err := NewBoltVectorStore(db, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1, 0}}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{0, 1}}}); err != nil {
		t.Fatal(err)
	}

	count, _ := s.Count()
	if count != 1 {
		t.Errorf("expected 1 vector after overwrite, got %d", count)
	}

	results, err := s.Search([]float32{0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("expected updated vector with similarity 1.0, got %v", results[0].Score)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1.0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0.0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1.0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0.0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

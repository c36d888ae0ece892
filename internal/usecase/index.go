package usecase

import (
	"fmt"

	"assessrec/internal/domain"
	"assessrec/internal/port"
)

// IndexProgress reports embedding progress during an index build.
type IndexProgress func(processed, total int)

// IndexResult summarizes an index build.
type IndexResult struct {
	Embedded int
	Skipped  int
}

// IndexUseCase embeds the catalog and stores the vectors. The build is a
// one-time startup (or explicit reindex) operation; request handling never
// writes to the store.
type IndexUseCase struct {
	embedder port.Embedder
	store    port.VectorStore
	catalog  port.Catalog
}

func NewIndexUseCase(embedder port.Embedder, store port.VectorStore, catalog port.Catalog) *IndexUseCase {
	return &IndexUseCase{
		embedder: embedder,
		store:    store,
		catalog:  catalog,
	}
}

// InSync reports whether the store already holds one vector per catalog
// record, in which case the build can be skipped.
func (u *IndexUseCase) InSync() (bool, error) {
	count, err := u.store.Count()
	if err != nil {
		return false, err
	}
	return count == u.catalog.Count(), nil
}

// Index embeds every catalog record and upserts the vectors keyed by URL.
// Embedding runs in batches so progress is visible for large catalogs.
func (u *IndexUseCase) Index(progress IndexProgress) (IndexResult, error) {
	records := u.catalog.List()
	total := len(records)
	if total == 0 {
		return IndexResult{}, fmt.Errorf("catalog is empty")
	}

	const batchSize = 50
	var result IndexResult

	for start := 0; start < total; start += batchSize {
		end := min(start+batchSize, total)
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, rec := range batch {
			texts[i] = rec.CombinedText()
		}

		vectors, err := u.embedder.Embed(texts)
		if err != nil {
			return result, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
		}
		if len(vectors) != len(batch) {
			return result, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbedding, len(vectors), len(batch))
		}

		items := make([]port.VectorItem, len(batch))
		for i, rec := range batch {
			items[i] = port.VectorItem{ID: rec.URL, Vector: vectors[i]}
		}
		if err := u.store.Upsert(items); err != nil {
			return result, fmt.Errorf("store vectors: %w", err)
		}

		result.Embedded += len(batch)
		if progress != nil {
			progress(end, total)
		}
	}

	return result, nil
}

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"assessrec/config"
	"assessrec/internal/adapter/catalog"
	"assessrec/internal/adapter/embedding"
	"assessrec/internal/adapter/ranking"
	"assessrec/internal/adapter/retriever"
	"assessrec/internal/adapter/store"
	"assessrec/internal/domain"
	"assessrec/internal/port"
	"assessrec/internal/usecase"
)

// App is the application context: every component is constructed once
// during Load and read-only afterwards. The readiness flag gates request
// handling; it flips only after the catalog and vector index are in sync.
type App struct {
	Cfg *config.Config
	Log *zap.Logger

	Catalog     *catalog.Store
	Embedder    port.Embedder
	Vectors     port.VectorStore
	Retriever   port.Retriever
	Recommender *usecase.Recommender
	Indexer     *usecase.IndexUseCase

	db    *bbolt.DB
	ready atomic.Bool
}

// Ready reports whether the index finished loading.
func (a *App) Ready() bool {
	return a.ready.Load()
}

// Recommend runs the full pipeline for one query: retrieve candidates,
// optionally rerank, then balance. It fails with ErrNotReady before the
// index has loaded.
func (a *App) Recommend(ctx context.Context, query string, topK, finalCount int) ([]domain.Candidate, error) {
	if !a.Ready() {
		return nil, domain.ErrNotReady
	}

	candidates, err := a.Retriever.Retrieve(query, topK)
	if err != nil {
		return nil, err
	}

	return a.Recommender.Recommend(ctx, query, candidates, finalCount), nil
}

// Close releases the embedding store.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Load constructs the application context: catalog, embedder, vector
// stores, retriever and recommender. When reindex is true the embedding
// store is rebuilt even if it already matches the catalog.
func Load(ctx context.Context, cfg *config.Config, log *zap.Logger, reindex bool, progress usecase.IndexProgress) (*App, error) {
	a := &App{Cfg: cfg, Log: log}

	cat, err := catalog.LoadFiles(cfg.Catalog.Files)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if cat.Count() == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	a.Catalog = cat
	log.Info("catalog loaded", zap.Int("assessments", cat.Count()))

	a.Embedder, err = newEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Catalog.IndexPath), 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	a.db, err = bbolt.Open(cfg.Catalog.IndexPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open index store: %w", err)
	}

	boltStore, err := store.NewBoltVectorStore(a.db, a.Embedder.Dimension())
	if err != nil {
		a.db.Close()
		return nil, fmt.Errorf("init vector store: %w", err)
	}

	a.Indexer = usecase.NewIndexUseCase(a.Embedder, boltStore, cat)
	inSync, err := a.Indexer.InSync()
	if err != nil {
		a.db.Close()
		return nil, err
	}
	if reindex || !inSync {
		log.Info("building embedding index",
			zap.String("model", a.Embedder.ModelName()),
			zap.Int("assessments", cat.Count()))
		result, err := a.Indexer.Index(progress)
		if err != nil {
			a.db.Close()
			return nil, fmt.Errorf("build index: %w", err)
		}
		log.Info("embedding index built", zap.Int("embedded", result.Embedded))
	}

	a.Vectors = boltStore
	if cfg.Catalog.Backend == "hnsw" {
		hnswStore := store.NewHNSWStore(a.Embedder.Dimension())
		if err := hnswStore.Upsert(boltStore.Items()); err != nil {
			a.db.Close()
			return nil, fmt.Errorf("build hnsw index: %w", err)
		}
		a.Vectors = hnswStore
	}

	a.Retriever = retriever.NewSemanticRetriever(a.Vectors, a.Embedder, cat, cfg.Retrieve.SimilarityFloor)

	var ranker port.Ranker
	if cfg.Rerank.Enabled {
		geminiRanker, err := ranking.NewGeminiRanker(ctx, cfg.Rerank.APIKeyEnv, cfg.Rerank.Model)
		if err != nil {
			// No credential means rule-based ordering, not a startup failure.
			log.Warn("reranking disabled", zap.Error(err))
		} else {
			ranker = geminiRanker
			log.Info("reranking enabled", zap.String("model", geminiRanker.ModelName()))
		}
	}

	balancer := usecase.NewBalancer(cfg.Balance)
	a.Recommender = usecase.NewRecommender(ranker, balancer,
		time.Duration(cfg.Rerank.TimeoutSeconds)*time.Second, log)

	a.ready.Store(true)
	return a, nil
}

func newEmbedder(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL, cfg.Dimension)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Model, cfg.BaseURL, cfg.Dimension)
	case "mock":
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 64
		}
		return embedding.NewMockEmbedder(dim), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

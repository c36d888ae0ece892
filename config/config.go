package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the recommendation service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Balance   BalanceConfig   `yaml:"balance"`
	Rerank    RerankConfig    `yaml:"rerank"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds catalog and index storage configuration.
type CatalogConfig struct {
	// Files are doublestar glob patterns for catalog CSV shards.
	Files     []string `yaml:"files"`
	IndexPath string   `yaml:"index_path"` // bbolt embedding store
	// Backend selects the search implementation: "bolt" (exact) or
	// "hnsw" (approximate, in-memory graph built at startup).
	Backend string `yaml:"backend"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`    // Override for OpenAI-compatible endpoints
	Dimension int    `yaml:"dimension"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int     `yaml:"top_k"`
	SimilarityFloor float64 `yaml:"similarity_floor"`
}

// BalanceConfig holds the category ratio table keyed by query domain.
// For each domain the Knowledge & Skills ratio is given; the Personality
// & Behavior ratio is its complement.
type BalanceConfig struct {
	FinalCount       int     `yaml:"final_count"`
	TechnicalKRatio  float64 `yaml:"technical_k_ratio"`
	BehavioralKRatio float64 `yaml:"behavioral_k_ratio"`
	MixedKRatio      float64 `yaml:"mixed_k_ratio"`
}

// RerankConfig holds LLM reranking configuration.
type RerankConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Model          string `yaml:"model"`       // e.g. "gemini-2.0-flash"
	APIKeyEnv      string `yaml:"api_key_env"` // Environment variable for API key
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Catalog: CatalogConfig{
			Files:     []string{"data/*.csv"},
			IndexPath: "data/index.db",
			Backend:   "hnsw",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
		},
		Retrieve: RetrieveConfig{
			TopK:            20,
			SimilarityFloor: 0.20,
		},
		Balance: BalanceConfig{
			FinalCount:       10,
			TechnicalKRatio:  0.7,
			BehavioralKRatio: 0.3,
			MixedKRatio:      0.5,
		},
		Rerank: RerankConfig{
			Enabled:        false,
			Model:          "gemini-2.0-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for assessrec.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "assessrec.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ratio and bound sanity.
func (c *Config) Validate() error {
	for name, r := range map[string]float64{
		"technical_k_ratio":  c.Balance.TechnicalKRatio,
		"behavioral_k_ratio": c.Balance.BehavioralKRatio,
		"mixed_k_ratio":      c.Balance.MixedKRatio,
	} {
		if r < 0 || r > 1 {
			return fmt.Errorf("balance.%s must be in [0,1], got %v", name, r)
		}
	}
	if c.Balance.FinalCount < 5 || c.Balance.FinalCount > 10 {
		return fmt.Errorf("balance.final_count must be in [5,10], got %d", c.Balance.FinalCount)
	}
	if c.Retrieve.TopK < 1 || c.Retrieve.TopK > 50 {
		return fmt.Errorf("retrieve.top_k must be in [1,50], got %d", c.Retrieve.TopK)
	}
	if c.Retrieve.SimilarityFloor < -1 || c.Retrieve.SimilarityFloor > 1 {
		return fmt.Errorf("retrieve.similarity_floor must be on the cosine scale [-1,1], got %v", c.Retrieve.SimilarityFloor)
	}
	switch c.Catalog.Backend {
	case "bolt", "hnsw":
	default:
		return fmt.Errorf("catalog.backend must be \"bolt\" or \"hnsw\", got %q", c.Catalog.Backend)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Retrieve.TopK != 20 || cfg.Retrieve.SimilarityFloor != 0.20 {
		t.Errorf("unexpected retrieve defaults: %+v", cfg.Retrieve)
	}
	if cfg.Balance.TechnicalKRatio != 0.7 || cfg.Balance.BehavioralKRatio != 0.3 || cfg.Balance.MixedKRatio != 0.5 {
		t.Errorf("unexpected balance defaults: %+v", cfg.Balance)
	}
	if cfg.Rerank.Enabled {
		t.Error("reranking should be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Balance.FinalCount != 10 {
		t.Errorf("expected defaults, got final_count %d", cfg.Balance.FinalCount)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	yaml := `
server:
  port: 9090
retrieve:
  top_k: 30
  similarity_floor: 0.35
balance:
  final_count: 8
  technical_k_ratio: 0.8
rerank:
  enabled: true
  model: gemini-2.0-flash
`
	path := filepath.Join(t.TempDir(), "assessrec.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port not overridden: %d", cfg.Server.Port)
	}
	if cfg.Retrieve.TopK != 30 || cfg.Retrieve.SimilarityFloor != 0.35 {
		t.Errorf("retrieve not overridden: %+v", cfg.Retrieve)
	}
	if cfg.Balance.FinalCount != 8 || cfg.Balance.TechnicalKRatio != 0.8 {
		t.Errorf("balance not overridden: %+v", cfg.Balance)
	}
	// Untouched keys keep their defaults.
	if cfg.Balance.MixedKRatio != 0.5 {
		t.Errorf("mixed_k_ratio default lost: %v", cfg.Balance.MixedKRatio)
	}
	if !cfg.Rerank.Enabled {
		t.Error("rerank.enabled not overridden")
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	// No file present: defaults.
	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}

	if err := os.WriteFile(filepath.Join(dir, "assessrec.yaml"), []byte("server:\n  port: 7000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000 from file, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(c *Config) {}},
		{name: "ratio above one", mutate: func(c *Config) { c.Balance.TechnicalKRatio = 1.2 }, wantErr: true},
		{name: "negative ratio", mutate: func(c *Config) { c.Balance.MixedKRatio = -0.1 }, wantErr: true},
		{name: "final_count too small", mutate: func(c *Config) { c.Balance.FinalCount = 4 }, wantErr: true},
		{name: "final_count too large", mutate: func(c *Config) { c.Balance.FinalCount = 11 }, wantErr: true},
		{name: "top_k zero", mutate: func(c *Config) { c.Retrieve.TopK = 0 }, wantErr: true},
		{name: "floor off scale", mutate: func(c *Config) { c.Retrieve.SimilarityFloor = 1.5 }, wantErr: true},
		{name: "negative floor allowed", mutate: func(c *Config) { c.Retrieve.SimilarityFloor = -0.5 }},
		{name: "unknown backend", mutate: func(c *Config) { c.Catalog.Backend = "flat" }, wantErr: true},
		{name: "bolt backend", mutate: func(c *Config) { c.Catalog.Backend = "bolt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9001
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9001 {
		t.Errorf("round trip lost port: %d", loaded.Server.Port)
	}
}

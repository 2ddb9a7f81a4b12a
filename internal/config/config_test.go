package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veer-004/go-triage/corpus"
	"github.com/Veer-004/go-triage/rules"
	"github.com/Veer-004/go-triage/train"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.TrainConfig() != train.DefaultConfig() {
		t.Errorf("TrainConfig() = %+v, want %+v", cfg.TrainConfig(), train.DefaultConfig())
	}
	if len(cfg.RuleTable()) != len(rules.Default()) {
		t.Errorf("got %d rules, want %d", len(cfg.RuleTable()), len(rules.Default()))
	}
	if cfg.Corpus.Driver != DriverCSV {
		t.Errorf("Driver = %q, want %q", cfg.Corpus.Driver, DriverCSV)
	}
}

func TestParse(t *testing.T) {
	doc := `
model:
  embed_dim: 32
  max_len: 12
train:
  epochs: 3
  learning_rate: 0.01
corpus:
  driver: sqlite
  path: reports.db
  strip_html: true
rules:
  - keyword: "Pot-Hole"
    category: Roads
  - keyword: water
    category: Water Supply
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tc := cfg.TrainConfig()
	if tc.EmbedDim != 32 || tc.MaxLen != 12 || tc.Epochs != 3 || tc.LearningRate != 0.01 {
		t.Errorf("TrainConfig() = %+v", tc)
	}
	// Unset keys keep their defaults
	if tc.BatchSize != 16 || tc.Seed != 42 || tc.Beta2 != 0.999 {
		t.Errorf("defaults lost: %+v", tc)
	}

	table := cfg.RuleTable()
	if len(table) != 2 {
		t.Fatalf("got %d rules, want 2", len(table))
	}
	if table[0].Keyword != "pothole" {
		t.Errorf("keyword not normalized: %q", table[0].Keyword)
	}
	if r, ok := table.Match("pothole near water"); !ok || r.Category != "Roads" {
		t.Errorf("Match() = %+v, %v; want Roads", r, ok)
	}

	src, err := cfg.Source("", nil)
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	sq, ok := src.(corpus.SQLiteSource)
	if !ok {
		t.Fatalf("Source() = %T, want corpus.SQLiteSource", src)
	}
	if sq.Path != "reports.db" || sq.Query != corpus.DefaultQuery || !sq.StripHTML {
		t.Errorf("SQLiteSource = %+v", sq)
	}
}

func TestParse_EmptyRulesDisables(t *testing.T) {
	cfg, err := Parse([]byte("rules: []\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.RuleTable()) != 0 {
		t.Errorf("expected no rules, got %d", len(cfg.RuleTable()))
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.TrainConfig() != train.DefaultConfig() {
		t.Errorf("empty document should yield defaults")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"unknown key", "model:\n  embed_size: 4\n", nil},
		{"bad yaml", "model: [\n", nil},
		{"zero max_len", "model:\n  max_len: 0\n", train.ErrInvalidConfig},
		{"negative epochs", "train:\n  epochs: -1\n", train.ErrInvalidConfig},
		{"unknown driver", "corpus:\n  driver: postgres\n", ErrInvalidConfig},
		{"zero pool", "serve:\n  pool_size: 0\n", ErrInvalidConfig},
		{"empty keyword", "rules:\n  - keyword: \"!!\"\n    category: Roads\n", rules.ErrInvalidRule},
		{"empty category", "rules:\n  - keyword: tree\n    category: \"\"\n", rules.ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.yaml")
	if err := os.WriteFile(path, []byte("serve:\n  pool_size: 2\n  artifacts: out\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serve.PoolSize != 2 || cfg.Serve.Artifacts != "out" {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestSource(t *testing.T) {
	cfg := Default()

	if _, err := cfg.Source("", nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig without a path, got %v", err)
	}

	src, err := cfg.Source("issues.csv", nil)
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	cs, ok := src.(corpus.CSVSource)
	if !ok {
		t.Fatalf("Source() = %T, want corpus.CSVSource", src)
	}
	if cs.Path != "issues.csv" || cs.TextColumn != corpus.DefaultTextColumn {
		t.Errorf("CSVSource = %+v", cs)
	}

	cfg.Corpus.Driver = "parquet"
	if _, err := cfg.Source("x", nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown driver, got %v", err)
	}
}

func TestLoad_Example(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "testdata", "triage.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Path != "testdata/issues.csv" {
		t.Errorf("Corpus.Path = %q", cfg.Corpus.Path)
	}
	if r, ok := cfg.RuleTable().Match("a fallen tree on the road"); !ok || r.Category != "Obstructions" {
		t.Errorf("Match() = %+v, %v; want Obstructions", r, ok)
	}
}

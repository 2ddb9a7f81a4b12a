// Package config loads the YAML file shared by the triage binaries.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Veer-004/go-triage/corpus"
	"github.com/Veer-004/go-triage/rules"
	"github.com/Veer-004/go-triage/train"
)

// ErrInvalidConfig indicates a value the binaries cannot act on.
var ErrInvalidConfig = errors.New("config: invalid")

// Corpus drivers.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// Config is the on-disk configuration. Sections missing from the file keep
// their defaults; an explicit empty rules list disables the rule engine.
type Config struct {
	Model  Model       `yaml:"model"`
	Train  Train       `yaml:"train"`
	Corpus Corpus      `yaml:"corpus"`
	Serve  Serve       `yaml:"serve"`
	Rules  rules.Table `yaml:"rules"`
}

// Model fixes the shape shared by training and serving.
type Model struct {
	EmbedDim int `yaml:"embed_dim"`
	MaxLen   int `yaml:"max_len"`
}

// Train holds optimizer and schedule settings.
type Train struct {
	Epochs             int     `yaml:"epochs"`
	BatchSize          int     `yaml:"batch_size"`
	LearningRate       float64 `yaml:"learning_rate"`
	ValidationFraction float64 `yaml:"validation_fraction"`
	Seed               uint64  `yaml:"seed"`
	Beta1              float64 `yaml:"beta1"`
	Beta2              float64 `yaml:"beta2"`
	Epsilon            float64 `yaml:"epsilon"`
}

// Corpus selects where labeled examples come from.
type Corpus struct {
	Driver         string `yaml:"driver"`
	Path           string `yaml:"path"`
	TextColumn     string `yaml:"text_column"`
	CategoryColumn string `yaml:"category_column"`
	Query          string `yaml:"query"`
	StripHTML      bool   `yaml:"strip_html"`
}

// Serve configures the inference context.
type Serve struct {
	Artifacts string `yaml:"artifacts"`
	PoolSize  int    `yaml:"pool_size"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	tc := train.DefaultConfig()
	return &Config{
		Model: Model{
			EmbedDim: tc.EmbedDim,
			MaxLen:   tc.MaxLen,
		},
		Train: Train{
			Epochs:             tc.Epochs,
			BatchSize:          tc.BatchSize,
			LearningRate:       tc.LearningRate,
			ValidationFraction: tc.ValidationFraction,
			Seed:               tc.Seed,
			Beta1:              tc.Beta1,
			Beta2:              tc.Beta2,
			Epsilon:            tc.Epsilon,
		},
		Corpus: Corpus{
			Driver:         DriverCSV,
			TextColumn:     corpus.DefaultTextColumn,
			CategoryColumn: corpus.DefaultCategoryColumn,
			Query:          corpus.DefaultQuery,
		},
		Serve: Serve{
			Artifacts: "artifacts",
			PoolSize:  runtime.NumCPU(),
		},
		Rules: rules.Default(),
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Rules = cfg.Rules.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.TrainConfig().Validate(); err != nil {
		return err
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	switch c.Corpus.Driver {
	case DriverCSV, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown corpus driver %q", ErrInvalidConfig, c.Corpus.Driver)
	}
	if c.Serve.PoolSize < 1 {
		return fmt.Errorf("%w: pool_size must be positive, got %d", ErrInvalidConfig, c.Serve.PoolSize)
	}
	return nil
}

// TrainConfig returns the trainer hyperparameters.
func (c *Config) TrainConfig() train.Config {
	return train.Config{
		EmbedDim:           c.Model.EmbedDim,
		MaxLen:             c.Model.MaxLen,
		Epochs:             c.Train.Epochs,
		BatchSize:          c.Train.BatchSize,
		LearningRate:       c.Train.LearningRate,
		ValidationFraction: c.Train.ValidationFraction,
		Seed:               c.Train.Seed,
		Beta1:              c.Train.Beta1,
		Beta2:              c.Train.Beta2,
		Epsilon:            c.Train.Epsilon,
	}
}

// RuleTable returns the ordered keyword rules.
func (c *Config) RuleTable() rules.Table {
	return c.Rules
}

// Source builds the corpus reader for the configured driver. A non-empty
// path overrides the configured one.
func (c *Config) Source(path string, logger *slog.Logger) (corpus.Source, error) {
	if path == "" {
		path = c.Corpus.Path
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no corpus path", ErrInvalidConfig)
	}

	switch c.Corpus.Driver {
	case DriverCSV:
		return corpus.CSVSource{
			Path:           path,
			TextColumn:     c.Corpus.TextColumn,
			CategoryColumn: c.Corpus.CategoryColumn,
			StripHTML:      c.Corpus.StripHTML,
			Logger:         logger,
		}, nil
	case DriverSQLite:
		return corpus.SQLiteSource{
			Path:      path,
			Query:     c.Corpus.Query,
			StripHTML: c.Corpus.StripHTML,
			Logger:    logger,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown corpus driver %q", ErrInvalidConfig, c.Corpus.Driver)
	}
}

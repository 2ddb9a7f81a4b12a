package triage

import (
	"log/slog"
	"runtime"

	"github.com/Veer-004/go-triage/rules"
)

// Option configures a Classifier.
type Option func(*config)

type config struct {
	rules    rules.Table
	poolSize int
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{
		rules:    rules.Default(),
		poolSize: runtime.NumCPU(),
		logger:   slog.Default(),
	}
}

// WithRules replaces the keyword table (default: rules.Default()). An empty
// table disables the keyword override so every text reaches the model.
func WithRules(t rules.Table) Option {
	return func(c *config) {
		c.rules = t
	}
}

// WithPoolSize sets the number of concurrent model evaluations
// (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

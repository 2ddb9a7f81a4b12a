package train

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrEmptyCorpus indicates Fit was called without any examples.
	ErrEmptyCorpus = errors.New("train: empty corpus")

	// ErrNonFiniteLoss indicates training diverged. Nothing is saved.
	ErrNonFiniteLoss = errors.New("train: non-finite loss")

	// ErrInvalidConfig indicates a hyperparameter outside its valid range.
	ErrInvalidConfig = errors.New("train: invalid config")
)

// Config holds training hyperparameters.
type Config struct {
	EmbedDim     int
	MaxLen       int
	Epochs       int
	BatchSize    int
	LearningRate float64

	// ValidationFraction of the corpus is held out; 0 trains on everything.
	ValidationFraction float64
	Seed               uint64

	Beta1   float64
	Beta2   float64
	Epsilon float64
}

// DefaultConfig returns the reference hyperparameters.
func DefaultConfig() Config {
	return Config{
		EmbedDim:           100,
		MaxLen:             20,
		Epochs:             10,
		BatchSize:          16,
		LearningRate:       1e-3,
		ValidationFraction: 0.2,
		Seed:               42,
		Beta1:              0.9,
		Beta2:              0.999,
		Epsilon:            1e-8,
	}
}

// Validate reports the first hyperparameter outside its valid range.
func (c Config) Validate() error {
	switch {
	case c.EmbedDim < 1:
		return fmt.Errorf("%w: embed_dim must be positive, got %d", ErrInvalidConfig, c.EmbedDim)
	case c.MaxLen < 1:
		return fmt.Errorf("%w: max_len must be positive, got %d", ErrInvalidConfig, c.MaxLen)
	case c.Epochs < 1:
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return fmt.Errorf("%w: learning_rate must be positive, got %g", ErrInvalidConfig, c.LearningRate)
	case c.ValidationFraction < 0 || c.ValidationFraction >= 1:
		return fmt.Errorf("%w: validation_fraction must be in [0, 1), got %g", ErrInvalidConfig, c.ValidationFraction)
	case c.Beta1 < 0 || c.Beta1 >= 1 || c.Beta2 < 0 || c.Beta2 >= 1:
		return fmt.Errorf("%w: betas must be in [0, 1), got %g/%g", ErrInvalidConfig, c.Beta1, c.Beta2)
	case !(c.Epsilon > 0):
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, c.Epsilon)
	}
	return nil
}

// Option configures a Trainer.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func defaultOptions() options {
	return options{logger: slog.Default()}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Veer-004/go-triage/inference"
	"github.com/Veer-004/go-triage/labels"
	"github.com/Veer-004/go-triage/rules"
	"github.com/Veer-004/go-triage/tokenizer"
)

// Source says which stage of the pipeline decided a prediction.
type Source int

const (
	// SourceModel means no keyword matched and the classifier decided.
	SourceModel Source = iota
	// SourceRule means a keyword rule matched and the classifier was skipped.
	SourceRule
)

func (s Source) String() string {
	switch s {
	case SourceRule:
		return "rule"
	case SourceModel:
		return "model"
	default:
		return "unknown"
	}
}

// Prediction is the routing decision for one complaint.
type Prediction struct {
	Category string
	Source   Source

	// Keyword is the matched keyword when Source is SourceRule.
	Keyword string

	// ClassID is the label codec id of Category, or -1 when a rule routed
	// to a category the model was never trained on.
	ClassID int

	// Confidence is the softmax probability of ClassID for model
	// predictions and 1 for rule matches.
	Confidence float32
}

// Classifier holds a loaded artifact triple and the keyword table. It is
// safe for concurrent use.
type Classifier struct {
	vocab  *tokenizer.Vocabulary
	codec  *labels.Codec
	model  *inference.Model
	rules  rules.Table
	pool   *inference.Pool
	runID  string
	logger *slog.Logger
	closed atomic.Bool
}

// New loads the artifact triple from dir.
func New(dir string, opts ...Option) (*Classifier, error) {
	t, err := loadTriple(dir)
	if err != nil {
		return nil, err
	}

	c, err := newClassifier(t.vocab, t.codec, t.model, opts)
	if err != nil {
		return nil, err
	}
	c.runID = t.runID

	c.logger.Info("loaded artifacts",
		"dir", dir,
		"run_id", t.runID,
		"vocab_size", t.vocab.Size(),
		"classes", t.codec.Len(),
		"max_len", t.model.MaxLen)

	return c, nil
}

// NewFromParts builds a Classifier from an in-memory triple, applying the
// same consistency checks as New.
func NewFromParts(vocab *tokenizer.Vocabulary, codec *labels.Codec, model *inference.Model, opts ...Option) (*Classifier, error) {
	return newClassifier(vocab, codec, model, opts)
}

func newClassifier(vocab *tokenizer.Vocabulary, codec *labels.Codec, model *inference.Model, opts []Option) (*Classifier, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkTriple(vocab, codec, model); err != nil {
		return nil, err
	}
	cfg.rules = cfg.rules.Normalize()
	if err := cfg.rules.Validate(); err != nil {
		return nil, err
	}

	for _, category := range cfg.rules.Categories() {
		if !codec.Contains(category) {
			cfg.logger.Warn("rule category is not a trained label", "category", category)
		}
	}

	pool, err := inference.NewPool(model, cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	return &Classifier{
		vocab:  vocab,
		codec:  codec,
		model:  model,
		rules:  cfg.rules,
		pool:   pool,
		logger: cfg.logger,
	}, nil
}

// checkTriple verifies the model was trained against this vocabulary and
// label codec.
func checkTriple(vocab *tokenizer.Vocabulary, codec *labels.Codec, model *inference.Model) error {
	if vocab == nil || codec == nil || model == nil {
		return fmt.Errorf("%w: incomplete triple", ErrMissingArtifact)
	}
	if err := model.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	if model.VocabSize != vocab.Size() {
		return fmt.Errorf("%w: model vocab_size %d, vocabulary has %d tokens",
			ErrArtifactMismatch, model.VocabSize, vocab.Size())
	}
	if model.NumClasses != codec.Len() {
		return fmt.Errorf("%w: model num_classes %d, label codec has %d categories",
			ErrArtifactMismatch, model.NumClasses, codec.Len())
	}
	return nil
}

// Predict routes text to a category. A keyword rule match returns
// immediately without running the model. Empty or punctuation-only text
// still reaches the model as an all-PAD sequence.
//
// Errors are only returned for a cancelled context or a closed Classifier.
func (c *Classifier) Predict(ctx context.Context, text string) (Prediction, error) {
	if c.closed.Load() {
		return Prediction{}, ErrClosed
	}

	cleaned := tokenizer.CleanText(text)

	if rule, ok := c.rules.Match(cleaned); ok {
		id, err := c.codec.Encode(rule.Category)
		if err != nil {
			id = -1
		}
		return Prediction{
			Category:   rule.Category,
			Source:     SourceRule,
			Keyword:    rule.Keyword,
			ClassID:    id,
			Confidence: 1,
		}, nil
	}

	ids := tokenizer.Encode(tokenizer.Tokenize(cleaned), c.vocab, c.model.MaxLen)

	scores, err := c.pool.Infer(ctx, ids)
	if err != nil {
		if errors.Is(err, inference.ErrPoolClosed) {
			return Prediction{}, ErrClosed
		}
		return Prediction{}, err
	}

	class := inference.Argmax(scores)
	category, err := c.codec.Decode(class)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrArtifactMismatch, err)
	}

	probs := make([]float32, len(scores))
	inference.Softmax(probs, scores)

	return Prediction{
		Category:   category,
		Source:     SourceModel,
		ClassID:    class,
		Confidence: probs[class],
	}, nil
}

// Category is Predict without the provenance.
func (c *Classifier) Category(ctx context.Context, text string) (string, error) {
	p, err := c.Predict(ctx, text)
	if err != nil {
		return "", err
	}
	return p.Category, nil
}

// Labels returns the trained categories in class id order.
func (c *Classifier) Labels() []string {
	return c.codec.Labels()
}

// MaxLen returns the fixed sequence length the model was trained with.
func (c *Classifier) MaxLen() int {
	return c.model.MaxLen
}

// RunID returns the training run that produced the loaded artifacts. It is
// empty for classifiers built with NewFromParts.
func (c *Classifier) RunID() string {
	return c.runID
}

// Close releases the session pool. Predict returns ErrClosed afterwards.
func (c *Classifier) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	var errs []error
	if c.pool != nil {
		if err := c.pool.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package train fits the bag-of-embeddings classifier and writes the
// artifact triple (vocabulary, label codec, model parameters) it serves from.
//
// A run moves through the states Loaded, Tokenized, Encoded, Split, Training,
// Trained and Saved. Training uses a single fixed sequence length for every
// example, the same length the serving side pads and truncates to.
package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veer-004/go-triage/corpus"
	"github.com/Veer-004/go-triage/inference"
	"github.com/Veer-004/go-triage/internal/artifact"
	"github.com/Veer-004/go-triage/internal/bench"
	"github.com/Veer-004/go-triage/labels"
	"github.com/Veer-004/go-triage/tokenizer"
)

// Trainer runs one training run. It is not safe for concurrent use.
type Trainer struct {
	cfg    Config
	logger *slog.Logger
	state  State
	result *Result
}

// Result is a fitted artifact triple plus the statistics of the run that
// produced it.
type Result struct {
	RunID  string
	Vocab  *tokenizer.Vocabulary
	Labels *labels.Codec
	Model  *inference.Model

	// EpochLosses holds, per epoch, the sum of the mean batch losses.
	EpochLosses []float64

	// Validation scores the model alone (no keyword rules) on the held-out rows.
	Validation     bench.Metrics
	TrainSize      int
	ValidationSize int
}

// New creates a Trainer with the given hyperparameters.
func New(cfg Config, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Trainer{cfg: cfg, logger: o.logger}, nil
}

// State returns the stage the run has reached.
func (t *Trainer) State() State {
	return t.state
}

func (t *Trainer) advance(s State) {
	t.state = s
	t.logger.Debug("training state", "state", s.String())
}

// Fit trains a model on examples. Rows with an empty text or category are
// dropped with a warning. The context is checked between batches.
func (t *Trainer) Fit(ctx context.Context, examples []corpus.Example) (*Result, error) {
	if t.result != nil || t.state != Loaded {
		return nil, errors.New("train: trainer already used")
	}

	// Loaded
	kept := make([]corpus.Example, 0, len(examples))
	for i, ex := range examples {
		if strings.TrimSpace(ex.Text) == "" || strings.TrimSpace(ex.Category) == "" {
			t.logger.Warn("dropping example with missing fields", "index", i)
			continue
		}
		kept = append(kept, corpus.Example{Text: ex.Text, Category: strings.TrimSpace(ex.Category)})
	}
	if len(kept) == 0 {
		return nil, ErrEmptyCorpus
	}
	t.advance(Loaded)

	// Tokenized: same normalization as the serving pipeline
	docs := make([][]string, len(kept))
	for i, ex := range kept {
		docs[i] = tokenizer.Tokenize(tokenizer.CleanText(ex.Text))
	}
	t.advance(Tokenized)

	// Encoded
	vocab := tokenizer.BuildVocabulary(docs)
	codec := labels.Fit(corpus.Categories(kept))
	seqs := make([][]int32, len(kept))
	targets := make([]int, len(kept))
	for i := range kept {
		seqs[i] = tokenizer.Encode(docs[i], vocab, t.cfg.MaxLen)
		id, err := codec.Encode(kept[i].Category)
		if err != nil {
			return nil, err
		}
		targets[i] = id
	}
	t.advance(Encoded)
	t.logger.Info("encoded corpus",
		"examples", len(kept),
		"vocab_size", vocab.Size(),
		"classes", codec.Len(),
		"max_len", t.cfg.MaxLen)

	// Split
	rng := rand.New(rand.NewPCG(t.cfg.Seed, t.cfg.Seed))
	trainIdx, valIdx := splitIndices(len(kept), t.cfg.ValidationFraction, rng)
	t.advance(Split)

	// Training
	model, err := inference.NewModel(vocab.Size(), t.cfg.EmbedDim, codec.Len(), t.cfg.MaxLen, rng)
	if err != nil {
		return nil, fmt.Errorf("creating model: %w", err)
	}
	t.advance(Training)

	losses, err := t.run(ctx, model, seqs, targets, trainIdx, rng)
	if err != nil {
		return nil, err
	}
	if !model.Finite() {
		return nil, fmt.Errorf("%w: parameters diverged", ErrNonFiniteLoss)
	}

	res := &Result{
		RunID:          artifact.NewRunID(),
		Vocab:          vocab,
		Labels:         codec,
		Model:          model,
		EpochLosses:    losses,
		TrainSize:      len(trainIdx),
		ValidationSize: len(valIdx),
	}

	if len(valIdx) > 0 {
		predicted := make([]int, len(valIdx))
		truth := make([]int, len(valIdx))
		for i, idx := range valIdx {
			class, _, err := model.Predict(seqs[idx])
			if err != nil {
				return nil, fmt.Errorf("validating: %w", err)
			}
			predicted[i] = class
			truth[i] = targets[idx]
		}
		res.Validation = bench.Evaluate(predicted, truth, codec.Len())
		t.logger.Info("validation",
			"examples", len(valIdx),
			"accuracy", res.Validation.Accuracy,
			"macro_f1", res.Validation.MacroF1)
	}

	t.result = res
	t.advance(Trained)
	return res, nil
}

// run executes the epoch loop and returns the per-epoch loss.
func (t *Trainer) run(ctx context.Context, m *inference.Model, seqs [][]int32, targets []int, trainIdx []int, rng *rand.Rand) ([]float64, error) {
	grads := newGradients(m)
	opt := newAdam([][]float32{m.Embedding, m.Weight, m.Bias}, t.cfg)

	order := make([]int, len(trainIdx))
	copy(order, trainIdx)

	losses := make([]float64, 0, t.cfg.Epochs)
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var epochLoss float64
		batches := 0
		for start := 0; start < len(order); start += t.cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			batch := order[start:min(start+t.cfg.BatchSize, len(order))]
			scale := 1 / float32(len(batch))

			grads.zero()
			var batchLoss float64
			for _, idx := range batch {
				loss, err := grads.accumulate(m, seqs[idx], targets[idx], scale)
				if err != nil {
					return nil, err
				}
				batchLoss += loss
			}

			batchLoss /= float64(len(batch))
			batches++
			if err := checkFinite(batchLoss, epoch, batches); err != nil {
				return nil, err
			}
			epochLoss += batchLoss

			opt.update(grads.slices())
		}

		losses = append(losses, epochLoss)
		t.logger.Info("epoch complete", "epoch", epoch, "loss", epochLoss, "batches", batches)
	}

	return losses, nil
}

// Save writes the artifact triple of the last Fit into dir.
func (t *Trainer) Save(dir string) error {
	if t.result == nil {
		return errors.New("train: nothing to save, Fit has not succeeded")
	}
	if err := t.result.Save(dir); err != nil {
		return err
	}
	t.advance(Saved)
	t.logger.Info("saved artifacts", "dir", dir, "run_id", t.result.RunID)
	return nil
}

// Save writes the artifact triple into dir, creating it if needed. All
// three files carry RunID so a serving process can detect a mixed triple.
// A model with non-finite parameters is refused.
func (r *Result) Save(dir string) error {
	if r.Model == nil || r.Vocab == nil || r.Labels == nil {
		return errors.New("train: incomplete result")
	}
	if !r.Model.Finite() {
		return fmt.Errorf("%w: refusing to save", ErrNonFiniteLoss)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}

	vocab, err := r.Vocab.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding vocabulary: %w", err)
	}
	codec, err := r.Labels.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding labels: %w", err)
	}
	model, err := r.Model.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	files := []struct {
		name    string
		kind    artifact.Kind
		payload []byte
	}{
		{artifact.VocabularyFile, artifact.KindVocabulary, vocab},
		{artifact.LabelsFile, artifact.KindLabels, codec},
		{artifact.ModelFile, artifact.KindModel, model},
	}
	for _, f := range files {
		data := artifact.Marshal(f.kind, r.RunID, f.payload)
		if err := artifact.WriteFile(filepath.Join(dir, f.name), data); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return nil
}

package inference

import (
	"context"
	"fmt"
	"sync"
)

// Session runs the classifier over one encoded sequence at a time. It owns
// scratch buffers for the pooled vector and scores; the Model itself is
// shared read-only between sessions.
type Session struct {
	model  *Model
	pooled []float32
	logits []float32
	mu     sync.Mutex
	closed bool
}

// NewSession creates a session over model.
func NewSession(model *Model) (*Session, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrShapeMismatch)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	return &Session{
		model:  model,
		pooled: make([]float32, model.EmbedDim),
		logits: make([]float32, model.NumClasses),
	}, nil
}

// Infer returns the per-class scores for ids, which must hold exactly
// Model.MaxLen vocabulary ids. The returned slice is owned by the caller.
func (s *Session) Infer(ctx context.Context, ids []int32) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("session is closed")
	}

	if err := s.model.Forward(ids, s.pooled, s.logits); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}

	scores := make([]float32, len(s.logits))
	copy(scores, s.logits)
	return scores, nil
}

// Close releases the scratch buffers.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pooled = nil
	s.logits = nil
	return nil
}

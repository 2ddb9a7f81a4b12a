package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool hands out a fixed number of Sessions over one shared Model, which
// caps how many forward passes run at once.
type Pool struct {
	model    *Model
	sessions chan *Session
	size     int

	mu     sync.Mutex
	closed bool
}

// NewPool creates size sessions over model. A size below 1 is treated as 1.
func NewPool(model *Model, size int) (*Pool, error) {
	size = max(size, 1)

	p := &Pool{
		model:    model,
		sessions: make(chan *Session, size),
		size:     size,
	}
	for i := range size {
		s, err := NewSession(model)
		if err != nil {
			_ = p.Close() // the construction error is the one worth reporting
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		p.sessions <- s
	}
	return p, nil
}

// Acquire takes an idle session, waiting until one is released or ctx is
// done. It returns ErrPoolClosed once Close has been called.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release hands s back. After Close, or when the pool is already full, s
// is closed instead.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	// Sending under the lock keeps Close from closing the channel mid-send.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = s.Close()
		return
	}
	select {
	case p.sessions <- s:
	default:
		_ = s.Close()
	}
}

// Infer runs one forward pass on a pooled session and returns the scores.
func (p *Pool) Infer(ctx context.Context, ids []int32) ([]float32, error) {
	s, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(s)

	return s.Infer(ctx, ids)
}

// Model returns the shared model.
func (p *Pool) Model() *Model {
	return p.model
}

// Close closes idle sessions and makes Acquire fail. Sessions that are
// checked out are closed as they come back.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sessions)
	p.mu.Unlock()

	var errs []error
	for s := range p.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of sessions.
func (p *Pool) Size() int {
	return p.size
}

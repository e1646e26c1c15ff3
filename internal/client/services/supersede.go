package services

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer call replaced this one before it
// finished; the caller must discard the result.
var ErrSuperseded = errors.New("superseded by a newer request")

// Superseder serializes "last one wins" operations: starting a new operation
// cancels the in-flight predecessor, and a predecessor that finishes after
// being replaced reports ErrSuperseded instead of its stale result.
//
// List-style operations use one Superseder per resource so rapid parameter
// changes (a search for "a" immediately followed by "ab") can never race a
// stale response into the caller's state.
type Superseder struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// Do runs fn with a context that is cancelled as soon as a newer Do call
// starts. If this call was superseded by the time fn returns, Do reports
// ErrSuperseded regardless of fn's outcome.
func (s *Superseder) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return ErrSuperseded
	}
	cancel()
	s.cancel = nil
	return err
}

package state

import (
	"context"
	"time"
)

// Begin registers a pending operation. The returned context is cancelled
// with ErrCancelled when the visit navigates away or logs out; done must be
// called once the operation has finished either way.
func (s *AppState) Begin(parent context.Context) (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancelCause(parent)

	s.mu.Lock()
	s.nextOp++
	id := s.nextOp
	s.pending[id] = cancel
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		cancel(context.Canceled)
	}
}

// Pending reports how many operations are in flight.
func (s *AppState) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *AppState) cancelPendingLocked() {
	for id, cancel := range s.pending {
		cancel(ErrCancelled)
		delete(s.pending, id)
	}
}

// Wait blocks for d or until ctx is done, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return alive(ctx)
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return alive(ctx)
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

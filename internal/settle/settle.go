package settle

import (
	"context"
	"time"

	"github.com/culturatoken/ctk-platform/internal/adapter"
)

// Settler models the confirmation delay of a simulated on-chain
// transaction. Implementations block until the transaction is considered
// settled or the context is cancelled.
type Settler interface {
	Settle(ctx context.Context) error
}

// FixedDelay settles after a fixed duration
type FixedDelay struct {
	delay time.Duration
	clock adapter.Clock
}

// NewFixedDelay creates a settler that waits for the given delay
func NewFixedDelay(delay time.Duration, clock adapter.Clock) *FixedDelay {
	return &FixedDelay{delay: delay, clock: clock}
}

func (s *FixedDelay) Settle(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.delay):
		return nil
	}
}

// Immediate settles without waiting. Used in tests and in backend flows
// where the delay simulation is not wanted.
type Immediate struct{}

// NewImmediate creates a settler that settles instantly
func NewImmediate() *Immediate {
	return &Immediate{}
}

func (s *Immediate) Settle(ctx context.Context) error {
	return ctx.Err()
}

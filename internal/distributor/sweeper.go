package distributor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/logger"
	"github.com/culturatoken/ctk-platform/internal/notify"
	"github.com/culturatoken/ctk-platform/internal/store"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

const (
	defaultPoolSize     = 10
	defaultBatchSize    = 100
	defaultMaxRetryWait = 5 * time.Minute
)

// Config holds the sweeper configuration
type Config struct {
	// SweepInterval is the pause between sweeps
	SweepInterval time.Duration
	// PoolSize bounds the number of concurrent distributions
	PoolSize int
	// BatchSize caps the number of queued entries loaded per sweep
	BatchSize int
	// MaxRetryWait bounds the total retry time per entry
	MaxRetryWait time.Duration
}

// Sweeper periodically distributes queued show revenue among investors
type Sweeper struct {
	cfg       Config
	store     store.Store
	publisher notify.Publisher
	clock     adapter.Clock
}

// NewSweeper creates a revenue sweeper
func NewSweeper(cfg Config, st store.Store, publisher notify.Publisher, clock adapter.Clock) *Sweeper {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxRetryWait <= 0 {
		cfg.MaxRetryWait = defaultMaxRetryWait
	}
	if publisher == nil {
		publisher = notify.NoopPublisher{}
	}
	if clock == nil {
		clock = adapter.NewClock()
	}
	return &Sweeper{cfg: cfg, store: st, publisher: publisher, clock: clock}
}

// Run sweeps immediately and then on every interval until the context is
// cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	for {
		if err := s.Sweep(ctx); err != nil {
			logger.ErrorCtx(ctx, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.cfg.SweepInterval):
		}
	}
}

// Sweep loads queued revenue and distributes each entry concurrently
func (s *Sweeper) Sweep(ctx context.Context) error {
	pending, err := s.store.PendingRevenues(ctx, s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to load pending revenues: %w", err)
	}
	if len(pending) == 0 {
		logger.DebugCtx(ctx, "No pending revenue to distribute")
		return nil
	}

	logger.InfoCtx(ctx, "Starting revenue sweep",
		zap.Int("pending", len(pending)),
		zap.Int("workers", s.cfg.PoolSize),
	)

	pool := pond.NewPool(
		s.cfg.PoolSize,
		pond.WithContext(ctx),
	)

	for _, entry := range pending {
		pool.Submit(func() {
			s.process(ctx, entry)
		})
	}

	pool.StopAndWait()

	logger.InfoCtx(ctx, "Revenue sweep complete",
		zap.Uint64("submitted", pool.SubmittedTasks()),
		zap.Uint64("successful", pool.SuccessfulTasks()),
		zap.Uint64("failed", pool.FailedTasks()),
	)
	return nil
}

// process distributes one queued revenue entry with retry
func (s *Sweeper) process(ctx context.Context, entry schema.PendingRevenue) {
	showID := entry.Show.ShowID
	if showID == "" {
		logger.WarnCtx(ctx, "Pending revenue without resolvable show, marking failed",
			zap.Int64("revenue_id", entry.ID),
		)
		s.markFailed(ctx, entry)
		return
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = s.cfg.MaxRetryWait

	var outcome *store.DistributionOutcome
	operation := func() error {
		result, err := s.store.DistributeRoyalties(ctx, showID, entry.Amount, s.clock.Now())
		if err != nil {
			// Business rejections will not change on retry
			if errors.Is(err, domain.ErrShowNotFound) ||
				errors.Is(err, domain.ErrNoActiveInvestors) ||
				errors.Is(err, domain.ErrInvalidAmount) {
				return backoff.Permanent(err)
			}
			logger.WarnCtx(ctx, "Distribution attempt failed, retrying",
				zap.Int64("revenue_id", entry.ID),
				zap.Error(err),
			)
			return err
		}
		outcome = result
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to distribute revenue: %w", err),
			zap.Int64("revenue_id", entry.ID),
			zap.String("show_id", showID),
			zap.Float64("amount", entry.Amount),
		)
		s.markFailed(ctx, entry)
		return
	}

	if err := s.store.MarkRevenueDistributed(ctx, entry.ID, s.clock.Now()); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to finalize revenue entry: %w", err),
			zap.Int64("revenue_id", entry.ID),
		)
		return
	}

	// Broker failures must not undo the committed distribution
	_ = s.publisher.PublishEvent(ctx, &notify.LedgerEvent{
		ID:         notify.NewEventID(),
		Type:       notify.EventRoyaltiesDistributed,
		ShowID:     showID,
		Amount:     entry.Amount,
		OccurredAt: s.clock.Now(),
	})

	logger.InfoCtx(ctx, "Revenue distributed",
		zap.Int64("revenue_id", entry.ID),
		zap.String("show_id", showID),
		zap.Float64("gross", outcome.GrossAmount),
		zap.Float64("net", outcome.NetAmount),
		zap.Int("investors", outcome.InvestorCount),
	)
}

func (s *Sweeper) markFailed(ctx context.Context, entry schema.PendingRevenue) {
	if err := s.store.MarkRevenueFailed(ctx, entry.ID); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mark revenue entry failed: %w", err),
			zap.Int64("revenue_id", entry.ID),
		)
	}
}

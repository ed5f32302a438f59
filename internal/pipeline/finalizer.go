package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/service"
)

// MinFinalizeInterval is the shortest accepted sweep period.
const MinFinalizeInterval = time.Minute

// DueFinalizer ends auctions whose end time has passed.
type DueFinalizer interface {
	FinalizeDue(ctx context.Context) (service.FinalizeSummary, error)
}

// Finalizer sweeps for due auctions on an interval and on demand.
type Finalizer struct {
	lifecycle DueFinalizer
	interval  time.Duration
	trigger   chan struct{}
	running   atomic.Bool
	logger    *slog.Logger
}

// NewFinalizer creates a Finalizer. Intervals below MinFinalizeInterval are
// raised to it.
func NewFinalizer(lifecycle DueFinalizer, interval time.Duration, logger *slog.Logger) *Finalizer {
	logger = logger.With(slog.String("component", "finalizer"))
	if interval < MinFinalizeInterval {
		logger.Warn("finalize interval below minimum, clamping",
			slog.Duration("requested", interval),
			slog.Duration("interval", MinFinalizeInterval),
		)
		interval = MinFinalizeInterval
	}
	return &Finalizer{
		lifecycle: lifecycle,
		interval:  interval,
		trigger:   make(chan struct{}, 1),
		logger:    logger,
	}
}

// Interval returns the effective sweep period.
func (f *Finalizer) Interval() time.Duration { return f.interval }

// Trigger requests a sweep as soon as the loop is free. Requests made while
// one is already pending are coalesced.
func (f *Finalizer) Trigger() {
	select {
	case f.trigger <- struct{}{}:
	default:
	}
}

// RunOnce performs one sweep. It returns false without sweeping when another
// sweep is still in progress.
func (f *Finalizer) RunOnce(ctx context.Context) (service.FinalizeSummary, bool) {
	if !f.running.CompareAndSwap(false, true) {
		f.logger.Warn("previous finalize sweep still running, skipping")
		return service.FinalizeSummary{}, false
	}
	defer f.running.Store(false)

	start := time.Now()
	sum, err := f.lifecycle.FinalizeDue(ctx)
	if err != nil {
		f.logger.Error("finalize sweep failed",
			slog.String("error", err.Error()),
			slog.Int("processed", sum.Processed),
		)
		return sum, true
	}
	f.logger.Info("finalize sweep complete",
		slog.Int("processed", sum.Processed),
		slog.Int("without_winner", sum.WithoutWinner),
		slog.Int("failed", sum.Failed),
		slog.Duration("took", time.Since(start)),
	)
	return sum, true
}

// RunLoop sweeps immediately, then every interval and on Trigger, until ctx
// is cancelled.
func (f *Finalizer) RunLoop(ctx context.Context) error {
	f.logger.Info("finalizer started", slog.Duration("interval", f.interval))
	f.RunOnce(ctx)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("finalizer stopped")
			return ctx.Err()
		case <-ticker.C:
			f.RunOnce(ctx)
		case <-f.trigger:
			f.RunOnce(ctx)
		}
	}
}

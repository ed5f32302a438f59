package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const archiveLockKey = "lock:archive:bids"

// Archiver copies the bid ledgers of long-finished auctions to cold storage.
type Archiver struct {
	bids          domain.BidArchiver
	locks         domain.LockManager
	retentionDays int
	now           func() time.Time
	logger        *slog.Logger
}

// NewArchiver creates a new Archiver. locks may be nil when only one process
// runs the archive schedule.
func NewArchiver(bids domain.BidArchiver, locks domain.LockManager, retentionDays int, logger *slog.Logger) *Archiver {
	return &Archiver{
		bids:          bids,
		locks:         locks,
		retentionDays: retentionDays,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "archiver")),
	}
}

// Cutoff returns the end time before which auctions are archived.
func (a *Archiver) Cutoff() time.Time {
	return a.now().UTC().Add(-time.Duration(a.retentionDays) * 24 * time.Hour)
}

// Run executes a single archive run.
func (a *Archiver) Run(ctx context.Context) error {
	if a.locks != nil {
		unlock, err := a.locks.Acquire(ctx, archiveLockKey, time.Hour)
		if errors.Is(err, domain.ErrLockHeld) {
			a.logger.Info("archive run already in progress elsewhere, skipping")
			return nil
		}
		if err != nil {
			return fmt.Errorf("acquiring archive lock: %w", err)
		}
		defer unlock()
	}

	cutoff := a.Cutoff()
	a.logger.Info("starting archive run",
		slog.Time("cutoff", cutoff),
		slog.Int("retention_days", a.retentionDays),
	)

	n, err := a.bids.ArchiveBids(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archiving bids before %v: %w", cutoff, err)
	}
	a.logger.Info("archive run complete", slog.Int64("auctions_archived", n))
	return nil
}

// RunCron runs the archiver on a standard 5-field cron schedule (UTC) until
// the context is cancelled.
func (a *Archiver) RunCron(ctx context.Context, cronExpr string) error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(cronExpr, func() {
		if err := a.Run(ctx); err != nil {
			a.logger.Error("archive run failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("parsing cron expression %q: %w", cronExpr, err)
	}

	a.logger.Info("archiver cron started", slog.String("cron", cronExpr))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	a.logger.Info("archiver cron stopped")
	return ctx.Err()
}

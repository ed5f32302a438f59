package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// FinalizeSummary counts the outcome of one FinalizeDue run.
type FinalizeSummary struct {
	Processed     int `json:"processed"`
	WithoutWinner int `json:"without_winner"`
	Failed        int `json:"failed"`
}

// LifecycleService moves auctions out of ACTIVE: finalization after the end
// time and administrative removal.
type LifecycleService struct {
	repo   domain.Repository
	events *EventPublisher
	batch  int
	now    func() time.Time
	logger *slog.Logger
}

// NewLifecycleService creates a LifecycleService. batch caps how many
// auctions one FinalizeDue call handles.
func NewLifecycleService(repo domain.Repository, events *EventPublisher, batch int, logger *slog.Logger) *LifecycleService {
	if batch <= 0 {
		batch = 500
	}
	return &LifecycleService{
		repo:   repo,
		events: events,
		batch:  batch,
		now:    time.Now,
		logger: logger.With(slog.String("component", "lifecycle_service")),
	}
}

// WithClock replaces the time source.
func (s *LifecycleService) WithClock(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// FinalizeDue ends every ACTIVE auction whose end time has passed. Each
// auction is claimed and finalized in its own transaction, so concurrent
// callers split the work and a failure rolls back only that auction.
func (s *LifecycleService) FinalizeDue(ctx context.Context) (FinalizeSummary, error) {
	var sum FinalizeSummary
	failed := make([]int64, 0)

	for sum.Processed+sum.Failed < s.batch {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("lifecycle_service: finalize due: %w", err)
		}

		var claimedID int64
		var winner bool
		var events []domain.AuctionEvent
		err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
			now := s.now()
			a, err := tx.Auctions().ClaimDue(ctx, now, failed)
			if err != nil {
				return err
			}
			claimedID = a.ID
			winner, events, err = s.finalize(ctx, tx, a, now)
			return err
		})

		if claimedID == 0 {
			if errors.Is(err, domain.ErrNotFound) {
				break
			}
			if err != nil {
				return sum, fmt.Errorf("lifecycle_service: claim due auction: %w", err)
			}
		}
		if err != nil {
			sum.Failed++
			failed = append(failed, claimedID)
			s.logger.ErrorContext(ctx, "lifecycle_service: finalize failed",
				slog.Int64("auction_id", claimedID),
				slog.String("error", err.Error()),
			)
			continue
		}

		sum.Processed++
		if !winner {
			sum.WithoutWinner++
		}
		s.events.Publish(ctx, events...)
	}

	if sum.Processed > 0 || sum.Failed > 0 {
		s.logger.InfoContext(ctx, "lifecycle_service: finalize run complete",
			slog.Int("processed", sum.Processed),
			slog.Int("without_winner", sum.WithoutWinner),
			slog.Int("failed", sum.Failed),
		)
	}
	return sum, nil
}

func (s *LifecycleService) finalize(ctx context.Context, tx domain.Stores, a domain.Auction, now time.Time) (bool, []domain.AuctionEvent, error) {
	if err := tx.Auctions().SetStatus(ctx, a.ID, domain.AuctionStatusEnded); err != nil {
		return false, nil, err
	}
	if _, err := tx.Proxies().DeleteByAuction(ctx, a.ID); err != nil {
		return false, nil, err
	}

	detail := map[string]any{
		"auction_id":  a.ID,
		"final_price": a.CurrentPrice,
		"bid_count":   a.BidCount,
	}
	var events []domain.AuctionEvent

	if a.HasLeader() {
		order, created, err := tx.Orders().CreateOnce(ctx, domain.OrderForAuction(a, now))
		if err != nil {
			return false, nil, err
		}
		detail["winner_id"] = order.WinnerID
		detail["order_id"] = order.ID
		if created {
			events = append(events, orderCreatedEvent(order))
		}
	} else {
		events = append(events, domain.AuctionEvent{
			Type:       domain.EventNoWinner,
			AuctionID:  a.ID,
			Recipients: []int64{a.SellerID},
		})
	}

	if err := tx.Audit().Log(ctx, "auction.finalized", detail); err != nil {
		return false, nil, err
	}
	return a.HasLeader(), events, nil
}

// Remove takes an ACTIVE auction down. Standing proxy commitments are
// discarded and no order is created.
func (s *LifecycleService) Remove(ctx context.Context, auctionID int64, reason string) error {
	var a domain.Auction
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		var err error
		a, err = tx.Auctions().LockForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if a.Status != domain.AuctionStatusActive {
			return domain.BadTransition("auction %d is %s", a.ID, a.Status)
		}
		if err := tx.Auctions().SetStatus(ctx, a.ID, domain.AuctionStatusRemoved); err != nil {
			return err
		}
		if _, err := tx.Proxies().DeleteByAuction(ctx, a.ID); err != nil {
			return err
		}
		return tx.Audit().Log(ctx, "auction.removed", map[string]any{
			"auction_id": a.ID,
			"reason":     reason,
		})
	})
	if err != nil {
		return fmt.Errorf("lifecycle_service: remove auction %d: %w", auctionID, err)
	}

	recipients := []int64{a.SellerID}
	if a.HasLeader() {
		recipients = append(recipients, *a.CurrentBidderID)
	}
	s.events.Publish(ctx, domain.AuctionEvent{
		Type:       domain.EventAuctionRemoved,
		AuctionID:  a.ID,
		Recipients: recipients,
	})
	s.logger.InfoContext(ctx, "lifecycle_service: auction removed",
		slog.Int64("auction_id", auctionID),
		slog.String("reason", reason),
	)
	return nil
}

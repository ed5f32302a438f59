package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// AuctionEventStream is the Redis stream every committed change is appended to.
const AuctionEventStream = "auction_events"

// Notifier delivers human-readable notifications for an event type.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// EventPublisher fans committed changes out to the signal bus and the
// notifier. Both are optional and every failure is logged and dropped: the
// database transaction has already committed.
type EventPublisher struct {
	bus      domain.SignalBus
	notifier Notifier
	logger   *slog.Logger
}

// NewEventPublisher creates an EventPublisher. bus and notifier may be nil.
func NewEventPublisher(bus domain.SignalBus, notifier Notifier, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		bus:      bus,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "events")),
	}
}

// Publish delivers each event. It never returns an error.
func (p *EventPublisher) Publish(ctx context.Context, events ...domain.AuctionEvent) {
	if p == nil {
		return
	}
	for _, evt := range events {
		if evt.ID == "" {
			evt.ID = uuid.NewString()
		}
		if evt.CreatedAt.IsZero() {
			evt.CreatedAt = time.Now().UTC()
		}
		p.toBus(ctx, evt)
		p.toNotifier(ctx, evt)
	}
}

func (p *EventPublisher) toBus(ctx context.Context, evt domain.AuctionEvent) {
	if p.bus == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.WarnContext(ctx, "events: marshal failed",
			slog.String("type", string(evt.Type)),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := p.bus.StreamAppend(ctx, AuctionEventStream, payload); err != nil {
		p.logger.WarnContext(ctx, "events: stream append failed",
			slog.String("type", string(evt.Type)),
			slog.Int64("auction_id", evt.AuctionID),
			slog.String("error", err.Error()),
		)
	}
	if err := p.bus.Publish(ctx, fmt.Sprintf("auction:%d", evt.AuctionID), payload); err != nil {
		p.logger.WarnContext(ctx, "events: publish failed",
			slog.Int64("auction_id", evt.AuctionID),
			slog.String("error", err.Error()),
		)
	}
}

func (p *EventPublisher) toNotifier(ctx context.Context, evt domain.AuctionEvent) {
	if p.notifier == nil {
		return
	}
	title, message := describe(evt)
	if err := p.notifier.Notify(ctx, string(evt.Type), title, message); err != nil {
		p.logger.WarnContext(ctx, "events: notification failed",
			slog.String("type", string(evt.Type)),
			slog.Int64("auction_id", evt.AuctionID),
			slog.String("error", err.Error()),
		)
	}
}

func describe(evt domain.AuctionEvent) (title, message string) {
	to := recipients(evt.Recipients)
	switch evt.Type {
	case domain.EventBidPlaced, domain.EventProxyBid:
		return fmt.Sprintf("New bid on auction #%d", evt.AuctionID),
			fmt.Sprintf("Current price %s, leader user %d (notify %s)", domain.FormatPrice(evt.Price), evt.UserID, to)
	case domain.EventOutbid:
		return fmt.Sprintf("Outbid on auction #%d", evt.AuctionID),
			fmt.Sprintf("User %d was outbid; price is now %s", evt.UserID, domain.FormatPrice(evt.Price))
	case domain.EventAuctionExtended:
		end := "unknown"
		if evt.EndAt != nil {
			end = evt.EndAt.UTC().Format(time.RFC3339)
		}
		return fmt.Sprintf("Auction #%d extended", evt.AuctionID), "New end time " + end
	case domain.EventBoughtNow:
		return fmt.Sprintf("Auction #%d bought now", evt.AuctionID),
			fmt.Sprintf("User %d bought at %s (notify %s)", evt.UserID, domain.FormatPrice(evt.Price), to)
	case domain.EventOrderCreated:
		return fmt.Sprintf("Order #%d created", evt.OrderID),
			fmt.Sprintf("Auction #%d won by user %d at %s (notify %s)", evt.AuctionID, evt.UserID, domain.FormatPrice(evt.Price), to)
	case domain.EventNoWinner:
		return fmt.Sprintf("Auction #%d ended without bids", evt.AuctionID),
			fmt.Sprintf("Notify seller %s", to)
	case domain.EventBidderRejected:
		return fmt.Sprintf("Bidder rejected on auction #%d", evt.AuctionID),
			fmt.Sprintf("User %d may no longer bid; price is now %s", evt.UserID, domain.FormatPrice(evt.Price))
	case domain.EventAuctionRemoved:
		return fmt.Sprintf("Auction #%d removed", evt.AuctionID), "Removed by an administrator"
	case domain.EventOrderStatus:
		return fmt.Sprintf("Order #%d updated", evt.OrderID),
			fmt.Sprintf("Status %s (notify %s)", evt.Status, to)
	}
	return string(evt.Type), fmt.Sprintf("auction #%d", evt.AuctionID)
}

func recipients(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

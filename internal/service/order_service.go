package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const (
	minShippingAddressLen = 10
	minShippingCodeLen    = 3
)

// OrderService drives the post-auction fulfilment workflow between winner
// and seller.
type OrderService struct {
	repo   domain.Repository
	events *EventPublisher
	now    func() time.Time
	logger *slog.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(repo domain.Repository, events *EventPublisher, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		events: events,
		now:    time.Now,
		logger: logger.With(slog.String("component", "order_service")),
	}
}

// WithClock replaces the time source.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// ListOrders returns orders where userID is seller or winner, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.Order, error) {
	orders, err := s.repo.Orders().ListForUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("order_service: list orders for %d: %w", userID, err)
	}
	return orders, nil
}

// GetOrder returns the order if userID takes part in it.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID int64) (domain.Order, error) {
	o, err := s.repo.Orders().GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order_service: get order %d: %w", orderID, err)
	}
	if !o.IsParticipant(userID) {
		return domain.Order{}, fmt.Errorf("order_service: get order %d: %w", orderID, domain.ErrForbidden)
	}
	return o, nil
}

// SubmitBuyerDetails records the winner's shipping address.
func (s *OrderService) SubmitBuyerDetails(ctx context.Context, orderID, userID int64, address, note string) (domain.Order, error) {
	address = strings.TrimSpace(address)
	return s.transition(ctx, "submit buyer details", orderID, func(o *domain.Order, now time.Time) error {
		if o.WinnerID != userID {
			return domain.ErrForbidden
		}
		if o.Status != domain.OrderStatusWaitingBuyerDetails {
			return domain.BadTransition("order is %s", o.Status)
		}
		if len(address) < minShippingAddressLen {
			return domain.Invalid("shipping address must be at least %d characters", minShippingAddressLen)
		}
		o.ShippingAddress = address
		o.BuyerInvoiceNote = strings.TrimSpace(note)
		o.InvoiceSubmittedAt = &now
		o.Status = domain.OrderStatusWaitingSellerConfirm
		return nil
	})
}

// ConfirmPayment lets the seller confirm payment and attach a shipping code.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, userID int64, shippingCode string) (domain.Order, error) {
	shippingCode = strings.TrimSpace(shippingCode)
	return s.transition(ctx, "confirm payment", orderID, func(o *domain.Order, now time.Time) error {
		if o.SellerID != userID {
			return domain.ErrForbidden
		}
		if o.Status != domain.OrderStatusWaitingSellerConfirm {
			return domain.BadTransition("order is %s", o.Status)
		}
		if len(shippingCode) < minShippingCodeLen {
			return domain.Invalid("shipping code must be at least %d characters", minShippingCodeLen)
		}
		o.ShippingCode = shippingCode
		o.PaymentConfirmedAt = &now
		o.Status = domain.OrderStatusWaitingBuyerReceipt
		return nil
	})
}

// ConfirmReceipt completes the order.
func (s *OrderService) ConfirmReceipt(ctx context.Context, orderID, userID int64) (domain.Order, error) {
	return s.transition(ctx, "confirm receipt", orderID, func(o *domain.Order, now time.Time) error {
		if o.WinnerID != userID {
			return domain.ErrForbidden
		}
		if o.Status != domain.OrderStatusWaitingBuyerReceipt {
			return domain.BadTransition("order is %s", o.Status)
		}
		o.BuyerReceivedAt = &now
		o.Status = domain.OrderStatusCompleted
		return nil
	})
}

// Cancel cancels a non-completed order. A seller cancellation also records a
// negative rating for the winner.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID int64, reason string) (domain.Order, error) {
	var o domain.Order
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		var err error
		o, err = tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsParticipant(userID) {
			return domain.ErrForbidden
		}
		if o.Status == domain.OrderStatusCompleted || o.Status == domain.OrderStatusCancelled {
			return domain.BadTransition("order is %s", o.Status)
		}

		now := s.now()
		o.Status = domain.OrderStatusCancelled
		o.CancelledAt = &now
		o.CancelReason = strings.TrimSpace(reason)
		o.UpdatedAt = now
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}

		if userID == o.SellerID {
			if err := tx.Ratings().Upsert(ctx, domain.Rating{
				OrderID:     o.ID,
				RaterID:     o.SellerID,
				RatedUserID: o.WinnerID,
				Score:       -1,
				Comment:     "order cancelled by seller",
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("order_service: cancel order %d: %w", orderID, err)
	}

	s.publishStatus(ctx, o)
	s.logger.InfoContext(ctx, "order_service: order cancelled",
		slog.Int64("order_id", o.ID),
		slog.Int64("cancelled_by", userID),
	)
	return o, nil
}

// LeaveRating records userID's score for the other participant of a
// completed order. Rating again replaces the earlier score.
func (s *OrderService) LeaveRating(ctx context.Context, orderID, userID int64, score int, comment string) error {
	if score != 1 && score != -1 {
		return fmt.Errorf("order_service: rate order %d: %w", orderID, domain.Invalid("score must be 1 or -1"))
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		o, err := tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsParticipant(userID) {
			return domain.ErrForbidden
		}
		if o.Status != domain.OrderStatusCompleted {
			return domain.BadTransition("order is %s", o.Status)
		}
		now := s.now()
		return tx.Ratings().Upsert(ctx, domain.Rating{
			OrderID:     o.ID,
			RaterID:     userID,
			RatedUserID: o.Counterparty(userID),
			Score:       score,
			Comment:     strings.TrimSpace(comment),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return fmt.Errorf("order_service: rate order %d: %w", orderID, err)
	}
	return nil
}

// transition locks the order, applies fn and stores the result.
func (s *OrderService) transition(ctx context.Context, op string, orderID int64, fn func(o *domain.Order, now time.Time) error) (domain.Order, error) {
	var o domain.Order
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		var err error
		o, err = tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := fn(&o, now); err != nil {
			return err
		}
		o.UpdatedAt = now
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("order_service: %s on order %d: %w", op, orderID, err)
	}

	s.publishStatus(ctx, o)
	s.logger.InfoContext(ctx, "order_service: order updated",
		slog.String("op", op),
		slog.Int64("order_id", o.ID),
		slog.String("status", string(o.Status)),
	)
	return o, nil
}

func (s *OrderService) publishStatus(ctx context.Context, o domain.Order) {
	s.events.Publish(ctx, domain.AuctionEvent{
		Type:       domain.EventOrderStatus,
		AuctionID:  o.AuctionID,
		OrderID:    o.ID,
		Status:     string(o.Status),
		Recipients: []int64{o.SellerID, o.WinnerID},
	})
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

func (f *fixture) endedOrder(t *testing.T, winner int64) domain.Order {
	t.Helper()
	ctx := context.Background()
	a := f.auction(t, func(a *domain.Auction) {
		a.EndAt = t0.Add(-time.Minute)
		a.CurrentPrice = 110_000
		a.CurrentBidderID = &winner
		a.BidCount = 1
	})
	_, err := f.lifecycle.FinalizeDue(ctx)
	require.NoError(t, err)
	o, err := f.store.Orders().GetByAuction(ctx, a.ID)
	require.NoError(t, err)
	return o
}

func TestOrder_Workflow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const winner = int64(10)
	o := f.endedOrder(t, winner)

	_, err := f.orders.GetOrder(ctx, o.ID, 55)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.orders.SubmitBuyerDetails(ctx, o.ID, seller, "1 Long Street, Springfield", "")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.orders.SubmitBuyerDetails(ctx, o.ID, winner, "short", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.ConfirmPayment(ctx, o.ID, seller, "TRK123")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	o, err = f.orders.SubmitBuyerDetails(ctx, o.ID, winner, "1 Long Street, Springfield", "invoice to ACME")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusWaitingSellerConfirm, o.Status)
	require.NotNil(t, o.InvoiceSubmittedAt)

	_, err = f.orders.ConfirmPayment(ctx, o.ID, seller, "AB")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	o, err = f.orders.ConfirmPayment(ctx, o.ID, seller, "TRK123")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusWaitingBuyerReceipt, o.Status)
	require.Equal(t, "TRK123", o.ShippingCode)

	err = f.orders.LeaveRating(ctx, o.ID, winner, 1, "")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	o, err = f.orders.ConfirmReceipt(ctx, o.ID, winner)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCompleted, o.Status)

	_, err = f.orders.Cancel(ctx, o.ID, seller, "too late")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.ErrorIs(t, f.orders.LeaveRating(ctx, o.ID, winner, 2, ""), domain.ErrInvalidInput)
	require.NoError(t, f.orders.LeaveRating(ctx, o.ID, winner, -1, "slow"))
	require.NoError(t, f.orders.LeaveRating(ctx, o.ID, winner, 1, "fine after all"))
	require.NoError(t, f.orders.LeaveRating(ctx, o.ID, seller, 1, ""))

	sellerRating, err := f.store.Ratings().Summary(ctx, seller)
	require.NoError(t, err)
	require.Equal(t, domain.RatingSummary{Positive: 1}, sellerRating)

	list, err := f.orders.ListOrders(ctx, winner, domain.ListOpts{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, o.ID, list[0].ID)
}

func TestOrder_SellerCancelPenalizesWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const winner = int64(10)
	o := f.endedOrder(t, winner)

	_, err := f.orders.Cancel(ctx, o.ID, 77, "")
	require.ErrorIs(t, err, domain.ErrForbidden)

	o, err = f.orders.Cancel(ctx, o.ID, seller, "buyer never paid")
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCancelled, o.Status)
	require.Equal(t, "buyer never paid", o.CancelReason)
	require.NotNil(t, o.CancelledAt)

	rating, err := f.store.Ratings().Summary(ctx, winner)
	require.NoError(t, err)
	require.Equal(t, domain.RatingSummary{Negative: 1}, rating)

	// A 0% rated bidder is now below the tier on strict auctions.
	strict := f.auction(t, func(a *domain.Auction) { a.AllowUnratedBidders = false })
	_, err = f.bidding.PlaceManualBid(ctx, strict.ID, winner, 100_000)
	requireReject(t, err, domain.RejectRatingTooLow)
}

func TestOrder_WinnerCancelLeavesNoRating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const winner = int64(10)
	o := f.endedOrder(t, winner)

	_, err := f.orders.Cancel(ctx, o.ID, winner, "changed my mind")
	require.NoError(t, err)

	rating, err := f.store.Ratings().Summary(ctx, winner)
	require.NoError(t, err)
	require.Zero(t, rating.Total())
}

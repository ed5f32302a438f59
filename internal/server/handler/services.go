package handler

//go:generate mockgen -source=services.go -destination=mock_services_test.go -package=handler

import (
	"context"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
	"github.com/alanyoungcy/auctionhouse/internal/service"
)

// AuctionService is what the auction handler needs from the bidding layer.
type AuctionService interface {
	GetAuction(ctx context.Context, auctionID int64) (domain.Auction, error)
	BidHistory(ctx context.Context, auctionID int64, limit int) ([]domain.Bid, error)
	PlaceManualBid(ctx context.Context, auctionID, bidderID, amount int64) (service.BidResult, error)
	RegisterProxyBid(ctx context.Context, auctionID, bidderID, maxAmount int64) (service.ProxyResult, error)
	BuyNow(ctx context.Context, auctionID, bidderID int64) (service.BuyNowResult, error)
	RejectBidder(ctx context.Context, auctionID, sellerID, bidderID int64, reason string) (domain.Auction, error)
}

// OrderService is what the order handler needs from the settlement layer.
type OrderService interface {
	ListOrders(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID int64) (domain.Order, error)
	SubmitBuyerDetails(ctx context.Context, orderID, userID int64, address, note string) (domain.Order, error)
	ConfirmPayment(ctx context.Context, orderID, userID int64, shippingCode string) (domain.Order, error)
	ConfirmReceipt(ctx context.Context, orderID, userID int64) (domain.Order, error)
	Cancel(ctx context.Context, orderID, userID int64, reason string) (domain.Order, error)
	LeaveRating(ctx context.Context, orderID, userID int64, score int, comment string) error
}

// AuctionRemover takes an active auction off the market.
type AuctionRemover interface {
	Remove(ctx context.Context, auctionID int64, reason string) error
}

// FinalizeRunner runs finalization sweeps, either queued or inline.
type FinalizeRunner interface {
	Trigger()
	RunOnce(ctx context.Context) (service.FinalizeSummary, bool)
}

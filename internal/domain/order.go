package domain

import "time"

// OrderStatus tracks post-auction fulfilment.
type OrderStatus string

const (
	OrderStatusWaitingBuyerDetails  OrderStatus = "WAITING_BUYER_DETAILS"
	OrderStatusWaitingSellerConfirm OrderStatus = "WAITING_SELLER_CONFIRM"
	OrderStatusWaitingBuyerReceipt  OrderStatus = "WAITING_BUYER_RECEIPT"
	OrderStatusCompleted            OrderStatus = "COMPLETED"
	OrderStatusCancelled            OrderStatus = "CANCELLED"
)

// Order is created exactly once per auction that ends with a leader.
type Order struct {
	ID                 int64
	AuctionID          int64
	SellerID           int64
	WinnerID           int64
	FinalPrice         int64
	Status             OrderStatus
	ShippingAddress    string
	BuyerInvoiceNote   string
	ShippingCode       string
	InvoiceSubmittedAt *time.Time
	PaymentConfirmedAt *time.Time
	BuyerReceivedAt    *time.Time
	CancelledAt        *time.Time
	CancelReason       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsParticipant reports whether userID is the seller or the winner.
func (o Order) IsParticipant(userID int64) bool {
	return o.SellerID == userID || o.WinnerID == userID
}

// Counterparty returns the other participant.
func (o Order) Counterparty(userID int64) int64 {
	if userID == o.SellerID {
		return o.WinnerID
	}
	return o.SellerID
}

// OrderForAuction builds the initial order for an auction's current leader.
func OrderForAuction(a Auction, now time.Time) Order {
	return Order{
		AuctionID:  a.ID,
		SellerID:   a.SellerID,
		WinnerID:   *a.CurrentBidderID,
		FinalPrice: a.CurrentPrice,
		Status:     OrderStatusWaitingBuyerDetails,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

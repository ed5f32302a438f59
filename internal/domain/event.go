package domain

import "time"

// EventType names a committed change in an auction or order.
type EventType string

const (
	EventBidPlaced       EventType = "bid_placed"
	EventProxyBid        EventType = "proxy_bid"
	EventOutbid          EventType = "outbid"
	EventAuctionExtended EventType = "auction_extended"
	EventBoughtNow       EventType = "bought_now"
	EventBidderRejected  EventType = "bidder_rejected"
	EventOrderCreated    EventType = "order_created"
	EventNoWinner        EventType = "auction_no_winner"
	EventAuctionRemoved  EventType = "auction_removed"
	EventOrderStatus     EventType = "order_status"
)

// AuctionEvent is emitted after commit. Delivery is best-effort.
type AuctionEvent struct {
	ID         string     `json:"id"`
	Type       EventType  `json:"type"`
	AuctionID  int64      `json:"auction_id"`
	OrderID    int64      `json:"order_id,omitempty"`
	UserID     int64      `json:"user_id,omitempty"`
	Price      int64      `json:"price,omitempty"`
	EndAt      *time.Time `json:"end_at,omitempty"`
	Status     string     `json:"status,omitempty"`
	Recipients []int64    `json:"recipients,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

package handler

import (
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// Response shapes. Amounts are integer minor units; the *_display fields
// carry the same value formatted for people.

type auctionView struct {
	ID                  int64      `json:"id"`
	SellerID            int64      `json:"seller_id"`
	Title               string     `json:"title"`
	Status              string     `json:"status"`
	StartPrice          int64      `json:"start_price"`
	PriceStep           int64      `json:"price_step"`
	CurrentPrice        int64      `json:"current_price"`
	CurrentPriceDisplay string     `json:"current_price_display"`
	MinimumBid          int64      `json:"minimum_bid"`
	CurrentBidderID     *int64     `json:"current_bidder_id"`
	BidCount            int        `json:"bid_count"`
	BuyNowPrice         *int64     `json:"buy_now_price,omitempty"`
	AutoExtend          bool       `json:"auto_extend"`
	ProxyEnabled        bool       `json:"proxy_enabled"`
	StartAt             time.Time  `json:"start_at"`
	EndAt               time.Time  `json:"end_at"`
	ArchivedAt          *time.Time `json:"archived_at,omitempty"`
}

func newAuctionView(a domain.Auction) auctionView {
	return auctionView{
		ID:                  a.ID,
		SellerID:            a.SellerID,
		Title:               a.Title,
		Status:              string(a.Status),
		StartPrice:          a.StartPrice,
		PriceStep:           a.PriceStep,
		CurrentPrice:        a.CurrentPrice,
		CurrentPriceDisplay: domain.FormatPrice(a.CurrentPrice),
		MinimumBid:          a.MinimumBid(),
		CurrentBidderID:     a.CurrentBidderID,
		BidCount:            a.BidCount,
		BuyNowPrice:         a.BuyNowPrice,
		AutoExtend:          a.AutoExtend,
		ProxyEnabled:        a.ProxyEnabled,
		StartAt:             a.StartAt,
		EndAt:               a.EndAt,
		ArchivedAt:          a.ArchivedAt,
	}
}

type bidView struct {
	ID            int64     `json:"id"`
	BidderID      int64     `json:"bidder_id"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	IsProxy       bool      `json:"is_proxy"`
	CreatedAt     time.Time `json:"created_at"`
}

func newBidView(b domain.Bid) bidView {
	return bidView{
		ID:            b.ID,
		BidderID:      b.BidderID,
		Amount:        b.Amount,
		AmountDisplay: domain.FormatPrice(b.Amount),
		IsProxy:       b.IsProxy,
		CreatedAt:     b.CreatedAt,
	}
}

type commitmentView struct {
	AuctionID int64     `json:"auction_id"`
	BidderID  int64     `json:"bidder_id"`
	MaxAmount int64     `json:"max_amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type orderView struct {
	ID                 int64      `json:"id"`
	AuctionID          int64      `json:"auction_id"`
	SellerID           int64      `json:"seller_id"`
	WinnerID           int64      `json:"winner_id"`
	FinalPrice         int64      `json:"final_price"`
	FinalPriceDisplay  string     `json:"final_price_display"`
	Status             string     `json:"status"`
	ShippingAddress    string     `json:"shipping_address,omitempty"`
	BuyerInvoiceNote   string     `json:"buyer_invoice_note,omitempty"`
	ShippingCode       string     `json:"shipping_code,omitempty"`
	InvoiceSubmittedAt *time.Time `json:"invoice_submitted_at,omitempty"`
	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at,omitempty"`
	BuyerReceivedAt    *time.Time `json:"buyer_received_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func newOrderView(o domain.Order) orderView {
	return orderView{
		ID:                 o.ID,
		AuctionID:          o.AuctionID,
		SellerID:           o.SellerID,
		WinnerID:           o.WinnerID,
		FinalPrice:         o.FinalPrice,
		FinalPriceDisplay:  domain.FormatPrice(o.FinalPrice),
		Status:             string(o.Status),
		ShippingAddress:    o.ShippingAddress,
		BuyerInvoiceNote:   o.BuyerInvoiceNote,
		ShippingCode:       o.ShippingCode,
		InvoiceSubmittedAt: o.InvoiceSubmittedAt,
		PaymentConfirmedAt: o.PaymentConfirmedAt,
		BuyerReceivedAt:    o.BuyerReceivedAt,
		CancelledAt:        o.CancelledAt,
		CancelReason:       o.CancelReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

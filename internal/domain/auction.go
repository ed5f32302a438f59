package domain

import "time"

// AuctionStatus tracks the auction lifecycle. ENDED and REMOVED are terminal.
type AuctionStatus string

const (
	AuctionStatusActive  AuctionStatus = "ACTIVE"
	AuctionStatusEnded   AuctionStatus = "ENDED"
	AuctionStatusRemoved AuctionStatus = "REMOVED"
)

// Terminal reports whether no further transitions are allowed.
func (s AuctionStatus) Terminal() bool {
	return s == AuctionStatusEnded || s == AuctionStatusRemoved
}

// Auction is the authoritative state of a single listing. Prices are integer
// minor units.
type Auction struct {
	ID                  int64
	SellerID            int64
	Title               string
	StartPrice          int64
	PriceStep           int64
	CurrentPrice        int64
	CurrentBidderID     *int64 // nil until the first accepted bid
	BidCount            int
	BuyNowPrice         *int64
	AutoExtend          bool
	ProxyEnabled        bool
	AllowUnratedBidders bool
	StartAt             time.Time
	EndAt               time.Time
	Status              AuctionStatus
	ArchivedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasLeader reports whether somebody currently holds the leading bid.
func (a Auction) HasLeader() bool {
	return a.CurrentBidderID != nil
}

// LeaderIs reports whether userID holds the leading bid.
func (a Auction) LeaderIs(userID int64) bool {
	return a.CurrentBidderID != nil && *a.CurrentBidderID == userID
}

// MinimumBid is the lowest amount a new bid may offer.
func (a Auction) MinimumBid() int64 {
	if !a.HasLeader() {
		return a.StartPrice
	}
	return a.CurrentPrice + a.PriceStep
}

// StepAligned reports whether amount sits on the StartPrice + k*PriceStep grid.
func (a Auction) StepAligned(amount int64) bool {
	if amount < a.StartPrice || a.PriceStep <= 0 {
		return false
	}
	return (amount-a.StartPrice)%a.PriceStep == 0
}

// ExtendSettings controls anti-sniping: a bid accepted within Window of the
// end moves the end to bid time + Extension.
type ExtendSettings struct {
	Window    time.Duration
	Extension time.Duration
}

// Setting keys read from the settings table.
const (
	SettingExtendWindowMinutes = "auto_extend_window_minutes"
	SettingExtendMinutes       = "auto_extend_minutes"
)

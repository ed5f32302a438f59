package domain

import "time"

// Bid is one append-only ledger row. IsProxy marks bids placed by the engine
// on behalf of a proxy commitment.
type Bid struct {
	ID        int64
	AuctionID int64
	BidderID  int64
	Amount    int64
	IsProxy   bool
	CreatedAt time.Time
}

// ProxyCommitment is a bidder's standing instruction to bid up to MaxAmount.
// There is at most one per (auction, bidder); CreatedAt survives upserts and
// breaks ties between equal ceilings.
type ProxyCommitment struct {
	ID        int64
	AuctionID int64
	BidderID  int64
	MaxAmount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlacklistEntry denies a bidder further participation in one auction.
type BlacklistEntry struct {
	AuctionID int64
	BidderID  int64
	Reason    string
	CreatedAt time.Time
}

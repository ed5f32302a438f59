// Package engine holds the pure bidding rules: eligibility, amount
// validation, proxy recalculation and anti-sniping. Nothing here touches
// storage; callers pass the locked auction snapshot in.
package engine

import (
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// Bidder is what the rules need to know about the caller.
type Bidder struct {
	ID          int64
	Blacklisted bool
	Rating      domain.RatingSummary
}

// CheckOpen rejects bids on auctions that are not accepting them at now.
func CheckOpen(a domain.Auction, now time.Time) error {
	switch a.Status {
	case domain.AuctionStatusActive:
	case domain.AuctionStatusEnded:
		return domain.Reject(domain.RejectAuctionEnded, "auction %d has ended", a.ID)
	default:
		return domain.Reject(domain.RejectAuctionNotActive, "auction %d is %s", a.ID, a.Status)
	}
	if now.Before(a.StartAt) {
		return domain.Reject(domain.RejectAuctionNotStarted, "auction %d opens at %s", a.ID, a.StartAt.Format(time.RFC3339))
	}
	if !now.Before(a.EndAt) {
		return domain.Reject(domain.RejectAuctionEnded, "auction %d ended at %s", a.ID, a.EndAt.Format(time.RFC3339))
	}
	return nil
}

// CheckEligibility applies the seller, deny-list and rating-tier rules.
func CheckEligibility(a domain.Auction, b Bidder, minRatingPercent int) error {
	if b.ID == a.SellerID {
		return domain.Reject(domain.RejectSelfBid, "seller cannot bid on own auction")
	}
	if b.Blacklisted {
		return domain.Reject(domain.RejectBlacklisted, "bidder %d is blocked from auction %d", b.ID, a.ID)
	}
	if b.Rating.Total() == 0 {
		if !a.AllowUnratedBidders {
			return domain.Reject(domain.RejectRatingRequired, "auction %d requires a rated bidder", a.ID)
		}
		return nil
	}
	if pct := b.Rating.Percent(); pct < minRatingPercent {
		return domain.Reject(domain.RejectRatingTooLow, "rating %d%% is below the required %d%%", pct, minRatingPercent)
	}
	return nil
}

// ValidateBid checks a manual bid amount against the locked auction.
func ValidateBid(a domain.Auction, amount int64) error {
	if amount <= 0 {
		return domain.Reject(domain.RejectInvalidAmount, "amount must be positive")
	}
	if floor := a.MinimumBid(); amount < floor {
		return domain.Reject(domain.RejectBidTooLow, "minimum bid is %d", floor)
	}
	if !a.StepAligned(amount) {
		return domain.Reject(domain.RejectInvalidStep, "amount must be %d plus a multiple of %d", a.StartPrice, a.PriceStep)
	}
	return nil
}

// ValidateCeiling checks a proxy ceiling. The floor is the start price while
// nobody leads and one step above the current price afterwards.
func ValidateCeiling(a domain.Auction, maxAmount int64) error {
	if !a.ProxyEnabled {
		return domain.Reject(domain.RejectProxyDisabled, "proxy bidding is disabled for auction %d", a.ID)
	}
	if maxAmount <= 0 {
		return domain.Reject(domain.RejectInvalidAmount, "max amount must be positive")
	}
	if floor := a.MinimumBid(); maxAmount < floor {
		return domain.Reject(domain.RejectBidTooLow, "max amount must be at least %d", floor)
	}
	if !a.StepAligned(maxAmount) {
		return domain.Reject(domain.RejectInvalidStep, "max amount must be %d plus a multiple of %d", a.StartPrice, a.PriceStep)
	}
	return nil
}

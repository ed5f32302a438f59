package engine

import (
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// ExtendedEnd returns the new end time when a bid accepted at now falls
// inside the anti-sniping window. The extension runs from the bid, not from
// the old end, and only ever moves the end later.
func ExtendedEnd(a domain.Auction, now time.Time, s domain.ExtendSettings) (time.Time, bool) {
	if !a.AutoExtend || s.Window <= 0 || s.Extension <= 0 {
		return a.EndAt, false
	}
	remaining := a.EndAt.Sub(now)
	if remaining <= 0 || remaining > s.Window {
		return a.EndAt, false
	}
	next := now.Add(s.Extension)
	if !next.After(a.EndAt) {
		return a.EndAt, false
	}
	return next, true
}

package engine

import (
	"sort"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// Outcome is the result of a proxy recalculation.
type Outcome struct {
	Changed  bool
	Price    int64
	BidderID int64
	// Ceiling of the winning commitment, for logging.
	Ceiling int64
}

// SortCommitments orders commitments by ceiling desc, then oldest first,
// then by id.
func SortCommitments(cs []domain.ProxyCommitment) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].MaxAmount != cs[j].MaxAmount {
			return cs[i].MaxAmount > cs[j].MaxAmount
		}
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}

// Recalculate decides the price and leader implied by the standing proxy
// commitments. The leading commitment pays one step above its strongest
// competitor, capped at its own ceiling, and never lowers the price. A
// commitment that cannot strictly beat a distinct current leader leaves the
// auction unchanged, so a manual bid equal to a ceiling keeps the lead.
// Running it again on its own output is a no-op.
func Recalculate(a domain.Auction, commitments []domain.ProxyCommitment) Outcome {
	candidates := make([]domain.ProxyCommitment, len(commitments))
	copy(candidates, commitments)
	SortCommitments(candidates)

	// Drop commitments below the floor; bounded by the candidate count.
	for i := 0; i < len(commitments) && len(candidates) > 0; i++ {
		last := candidates[len(candidates)-1]
		if last.MaxAmount >= a.StartPrice {
			break
		}
		candidates = candidates[:len(candidates)-1]
	}
	if len(candidates) == 0 {
		return Outcome{}
	}

	top := candidates[0]
	topLeads := a.LeaderIs(top.BidderID)
	otherLeader := a.HasLeader() && !topLeads
	hasRival := len(candidates) > 1

	var required int64
	if !hasRival && !otherLeader {
		required = max(a.CurrentPrice, a.StartPrice)
	} else {
		competitor := a.StartPrice
		if hasRival {
			competitor = max(competitor, candidates[1].MaxAmount)
		}
		if otherLeader {
			competitor = max(competitor, a.CurrentPrice)
		}
		required = min(competitor+a.PriceStep, top.MaxAmount)
		if topLeads {
			required = max(required, a.CurrentPrice)
		} else if otherLeader && required <= a.CurrentPrice {
			return Outcome{}
		}
	}

	if topLeads && required == a.CurrentPrice {
		return Outcome{}
	}
	return Outcome{
		Changed:  true,
		Price:    required,
		BidderID: top.BidderID,
		Ceiling:  top.MaxAmount,
	}
}

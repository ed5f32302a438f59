package engine

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

func drawAuction(t *rapid.T) domain.Auction {
	start := rapid.Int64Range(1, 1_000).Draw(t, "start") * 100
	step := rapid.Int64Range(1, 50).Draw(t, "step") * 100
	a := domain.Auction{
		ID:           1,
		SellerID:     1_000,
		StartPrice:   start,
		PriceStep:    step,
		CurrentPrice: start,
		ProxyEnabled: true,
		Status:       domain.AuctionStatusActive,
		StartAt:      t0.Add(-time.Hour),
		EndAt:        t0.Add(time.Hour),
	}
	if rapid.Bool().Draw(t, "hasLeader") {
		leader := rapid.Int64Range(1, 8).Draw(t, "leader")
		a.CurrentBidderID = &leader
		a.CurrentPrice = start + rapid.Int64Range(0, 40).Draw(t, "leaderSteps")*step
		a.BidCount = 1
	}
	return a
}

func drawCommitments(t *rapid.T, a domain.Auction) []domain.ProxyCommitment {
	n := rapid.IntRange(0, 6).Draw(t, "n")
	cs := make([]domain.ProxyCommitment, 0, n)
	for i := 0; i < n; i++ {
		steps := rapid.Int64Range(-2, 60).Draw(t, fmt.Sprintf("ceilingSteps%d", i))
		cs = append(cs, domain.ProxyCommitment{
			ID:        int64(i + 1),
			AuctionID: a.ID,
			BidderID:  int64(i + 1),
			MaxAmount: a.StartPrice + steps*a.PriceStep,
			CreatedAt: t0.Add(time.Duration(rapid.IntRange(0, 600).Draw(t, fmt.Sprintf("age%d", i))) * -time.Second),
		})
	}
	return cs
}

func TestProperty_RecalculateBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawAuction(t)
		cs := drawCommitments(t, a)

		out := Recalculate(a, cs)
		if !out.Changed {
			return
		}

		sorted := append([]domain.ProxyCommitment(nil), cs...)
		SortCommitments(sorted)
		top := sorted[0]

		if out.BidderID != top.BidderID {
			t.Fatalf("leader %d is not the top commitment owner %d", out.BidderID, top.BidderID)
		}
		if out.Price > top.MaxAmount {
			t.Fatalf("price %d exceeds ceiling %d", out.Price, top.MaxAmount)
		}
		if out.Price < a.CurrentPrice {
			t.Fatalf("price fell from %d to %d", a.CurrentPrice, out.Price)
		}
		if !a.StepAligned(out.Price) {
			t.Fatalf("price %d is off the step grid", out.Price)
		}

		// Never more than one step above the strongest competition.
		bound := max(a.StartPrice, a.CurrentPrice)
		if len(sorted) > 1 {
			bound = max(bound, sorted[1].MaxAmount)
		}
		if out.Price > bound+a.PriceStep {
			t.Fatalf("price %d above minimal beating amount %d", out.Price, bound+a.PriceStep)
		}
	})
}

func TestProperty_RecalculateIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawAuction(t)
		cs := drawCommitments(t, a)

		out := Recalculate(a, cs)
		if !out.Changed {
			return
		}
		a = apply(a, out.Price, out.BidderID)

		if again := Recalculate(a, cs); again.Changed {
			t.Fatalf("second pass changed state: %+v", again)
		}
	})
}

// Accepted bids, manual or proxy-generated, must strictly raise the price.
func TestProperty_PriceStrictlyIncreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := domain.Auction{
			ID:           1,
			SellerID:     1_000,
			StartPrice:   10_000,
			PriceStep:    500,
			CurrentPrice: 10_000,
			ProxyEnabled: true,
			Status:       domain.AuctionStatusActive,
		}
		var cs []domain.ProxyCommitment
		ops := rapid.IntRange(1, 40).Draw(t, "ops")

		for i := 0; i < ops; i++ {
			bidder := rapid.Int64Range(1, 5).Draw(t, fmt.Sprintf("bidder%d", i))
			amount := a.StartPrice + rapid.Int64Range(-2, 80).Draw(t, fmt.Sprintf("steps%d", i))*a.PriceStep
			prev, hadLeader := a.CurrentPrice, a.HasLeader()

			if rapid.Bool().Draw(t, fmt.Sprintf("proxy%d", i)) {
				if ValidateCeiling(a, amount) != nil {
					continue
				}
				cs = upsert(cs, domain.ProxyCommitment{
					ID:        int64(i + 1),
					BidderID:  bidder,
					MaxAmount: amount,
					CreatedAt: t0.Add(time.Duration(i) * time.Second),
				})
			} else {
				if ValidateBid(a, amount) != nil {
					continue
				}
				a = apply(a, amount, bidder)
				if hadLeader && a.CurrentPrice <= prev {
					t.Fatalf("manual bid did not raise price: %d -> %d", prev, a.CurrentPrice)
				}
				prev, hadLeader = a.CurrentPrice, true
			}

			if out := Recalculate(a, cs); out.Changed {
				a = apply(a, out.Price, out.BidderID)
				if hadLeader && a.CurrentPrice <= prev {
					t.Fatalf("proxy bid did not raise price: %d -> %d", prev, a.CurrentPrice)
				}
			}
		}
	})
}

func upsert(cs []domain.ProxyCommitment, c domain.ProxyCommitment) []domain.ProxyCommitment {
	for i := range cs {
		if cs[i].BidderID == c.BidderID {
			cs[i].MaxAmount = c.MaxAmount
			return cs
		}
	}
	return append(cs, c)
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(v int64) *int64 { return &v }

func baseAuction() domain.Auction {
	return domain.Auction{
		ID:           1,
		SellerID:     99,
		StartPrice:   100_000,
		PriceStep:    5_000,
		CurrentPrice: 100_000,
		ProxyEnabled: true,
		Status:       domain.AuctionStatusActive,
		StartAt:      t0.Add(-time.Hour),
		EndAt:        t0.Add(time.Hour),
	}
}

func commit(id, bidder, ceiling int64, age time.Duration) domain.ProxyCommitment {
	return domain.ProxyCommitment{
		ID:        id,
		AuctionID: 1,
		BidderID:  bidder,
		MaxAmount: ceiling,
		CreatedAt: t0.Add(-age),
	}
}

// apply mirrors what the bidding service does with an outcome.
func apply(a domain.Auction, price, bidder int64) domain.Auction {
	a.CurrentPrice = price
	a.CurrentBidderID = ptr(bidder)
	a.BidCount++
	return a
}

func TestRecalculate_EscalationScenario(t *testing.T) {
	const (
		alice = int64(1)
		bob   = int64(2)
		carol = int64(3)
	)
	a := baseAuction()

	// Alice registers a 150k ceiling with no bids: she leads at the start price.
	cs := []domain.ProxyCommitment{commit(1, alice, 150_000, 3*time.Minute)}
	out := Recalculate(a, cs)
	require.True(t, out.Changed)
	require.Equal(t, int64(100_000), out.Price)
	require.Equal(t, alice, out.BidderID)
	a = apply(a, out.Price, out.BidderID)

	// Bob bids 110k manually; Alice answers one step above.
	require.NoError(t, ValidateBid(a, 110_000))
	a = apply(a, 110_000, bob)
	out = Recalculate(a, cs)
	require.True(t, out.Changed)
	require.Equal(t, int64(115_000), out.Price)
	require.Equal(t, alice, out.BidderID)
	a = apply(a, out.Price, out.BidderID)

	// Bob registers 140k; Alice keeps the lead at 145k.
	require.NoError(t, ValidateCeiling(a, 140_000))
	cs = append(cs, commit(2, bob, 140_000, time.Minute))
	out = Recalculate(a, cs)
	require.True(t, out.Changed)
	require.Equal(t, int64(145_000), out.Price)
	require.Equal(t, alice, out.BidderID)
	a = apply(a, out.Price, out.BidderID)

	// Carol's 148k is below the minimum.
	code, ok := domain.RejectCodeOf(ValidateBid(a, 148_000))
	require.True(t, ok)
	require.Equal(t, domain.RejectBidTooLow, code)

	// Carol's 150k equals Alice's ceiling, so Alice cannot beat it.
	require.NoError(t, ValidateBid(a, 150_000))
	a = apply(a, 150_000, carol)
	out = Recalculate(a, cs)
	require.False(t, out.Changed)
	require.True(t, a.LeaderIs(carol))
	require.Equal(t, int64(150_000), a.CurrentPrice)
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name        string
		auction     func() domain.Auction
		commitments []domain.ProxyCommitment
		wantChanged bool
		wantPrice   int64
		wantBidder  int64
	}{
		{
			name:    "no commitments",
			auction: baseAuction,
		},
		{
			name:        "commitment below start price is ignored",
			auction:     baseAuction,
			commitments: []domain.ProxyCommitment{commit(1, 7, 95_000, time.Minute)},
		},
		{
			name:    "equal ceilings favour the earliest commitment",
			auction: baseAuction,
			commitments: []domain.ProxyCommitment{
				commit(1, 7, 130_000, time.Minute),
				commit(2, 8, 130_000, 2*time.Minute),
			},
			wantChanged: true,
			wantPrice:   130_000,
			wantBidder:  8,
		},
		{
			name:    "two rivals without a leader",
			auction: baseAuction,
			commitments: []domain.ProxyCommitment{
				commit(1, 7, 200_000, time.Minute),
				commit(2, 8, 120_000, 2*time.Minute),
			},
			wantChanged: true,
			wantPrice:   125_000,
			wantBidder:  7,
		},
		{
			name: "ceiling below the leader's price cannot take over",
			auction: func() domain.Auction {
				return apply(baseAuction(), 130_000, 5)
			},
			commitments: []domain.ProxyCommitment{commit(1, 7, 125_000, time.Minute)},
		},
		{
			name: "leading commitment raised by a new rival",
			auction: func() domain.Auction {
				return apply(baseAuction(), 100_000, 7)
			},
			commitments: []domain.ProxyCommitment{
				commit(1, 7, 300_000, 2*time.Minute),
				commit(2, 8, 180_000, time.Minute),
			},
			wantChanged: true,
			wantPrice:   185_000,
			wantBidder:  7,
		},
		{
			name: "leader already at the required price",
			auction: func() domain.Auction {
				return apply(baseAuction(), 185_000, 7)
			},
			commitments: []domain.ProxyCommitment{
				commit(1, 7, 300_000, 2*time.Minute),
				commit(2, 8, 180_000, time.Minute),
			},
		},
		{
			name: "rival ceiling above leader's manual bid",
			auction: func() domain.Auction {
				return apply(baseAuction(), 140_000, 5)
			},
			commitments: []domain.ProxyCommitment{
				commit(1, 7, 160_000, time.Minute),
			},
			wantChanged: true,
			wantPrice:   145_000,
			wantBidder:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Recalculate(tt.auction(), tt.commitments)
			require.Equal(t, tt.wantChanged, out.Changed)
			if tt.wantChanged {
				require.Equal(t, tt.wantPrice, out.Price)
				require.Equal(t, tt.wantBidder, out.BidderID)
			}
		})
	}
}

func TestRecalculate_DoesNotReorderInput(t *testing.T) {
	cs := []domain.ProxyCommitment{
		commit(1, 7, 110_000, time.Minute),
		commit(2, 8, 150_000, 2*time.Minute),
	}
	Recalculate(baseAuction(), cs)
	require.Equal(t, int64(7), cs[0].BidderID)
}

func TestExtendedEnd(t *testing.T) {
	settings := domain.ExtendSettings{Window: 5 * time.Minute, Extension: 10 * time.Minute}

	t.Run("bid inside the window extends from bid time", func(t *testing.T) {
		a := baseAuction()
		a.AutoExtend = true
		a.EndAt = t0.Add(time.Minute)

		end, ok := ExtendedEnd(a, t0, settings)
		require.True(t, ok)
		require.Equal(t, t0.Add(10*time.Minute), end)
	})

	t.Run("bid outside the window", func(t *testing.T) {
		a := baseAuction()
		a.AutoExtend = true
		a.EndAt = t0.Add(6 * time.Minute)

		_, ok := ExtendedEnd(a, t0, settings)
		require.False(t, ok)
	})

	t.Run("auto extend disabled", func(t *testing.T) {
		a := baseAuction()
		a.EndAt = t0.Add(time.Minute)

		_, ok := ExtendedEnd(a, t0, settings)
		require.False(t, ok)
	})

	t.Run("never shortens", func(t *testing.T) {
		a := baseAuction()
		a.AutoExtend = true
		a.EndAt = t0.Add(4 * time.Minute)

		_, ok := ExtendedEnd(a, t0, domain.ExtendSettings{Window: 5 * time.Minute, Extension: 2 * time.Minute})
		require.False(t, ok)
	})
}

func TestCheckOpen(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Auction)
		want   domain.RejectCode
	}{
		{"removed", func(a *domain.Auction) { a.Status = domain.AuctionStatusRemoved }, domain.RejectAuctionNotActive},
		{"ended status", func(a *domain.Auction) { a.Status = domain.AuctionStatusEnded }, domain.RejectAuctionEnded},
		{"not started", func(a *domain.Auction) { a.StartAt = t0.Add(time.Minute) }, domain.RejectAuctionNotStarted},
		{"past end", func(a *domain.Auction) { a.EndAt = t0 }, domain.RejectAuctionEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAuction()
			tt.mutate(&a)
			code, ok := domain.RejectCodeOf(CheckOpen(a, t0))
			require.True(t, ok)
			require.Equal(t, tt.want, code)
		})
	}
	require.NoError(t, CheckOpen(baseAuction(), t0))
}

func TestCheckEligibility(t *testing.T) {
	a := baseAuction()

	code, _ := domain.RejectCodeOf(CheckEligibility(a, Bidder{ID: a.SellerID}, 80))
	require.Equal(t, domain.RejectSelfBid, code)

	code, _ = domain.RejectCodeOf(CheckEligibility(a, Bidder{ID: 5, Blacklisted: true}, 80))
	require.Equal(t, domain.RejectBlacklisted, code)

	code, _ = domain.RejectCodeOf(CheckEligibility(a, Bidder{ID: 5}, 80))
	require.Equal(t, domain.RejectRatingRequired, code)

	a.AllowUnratedBidders = true
	require.NoError(t, CheckEligibility(a, Bidder{ID: 5}, 80))

	low := Bidder{ID: 5, Rating: domain.RatingSummary{Positive: 7, Negative: 3}}
	code, _ = domain.RejectCodeOf(CheckEligibility(a, low, 80))
	require.Equal(t, domain.RejectRatingTooLow, code)

	good := Bidder{ID: 5, Rating: domain.RatingSummary{Positive: 8, Negative: 2}}
	require.NoError(t, CheckEligibility(a, good, 80))
}

func TestValidateBid(t *testing.T) {
	a := baseAuction()
	require.NoError(t, ValidateBid(a, 100_000), "first bid may equal the start price")

	code, _ := domain.RejectCodeOf(ValidateBid(a, 0))
	require.Equal(t, domain.RejectInvalidAmount, code)

	code, _ = domain.RejectCodeOf(ValidateBid(a, 102_000))
	require.Equal(t, domain.RejectInvalidStep, code)

	a = apply(a, 100_000, 5)
	code, _ = domain.RejectCodeOf(ValidateBid(a, 100_000))
	require.Equal(t, domain.RejectBidTooLow, code)
	require.NoError(t, ValidateBid(a, 105_000))
}

func TestValidateCeiling(t *testing.T) {
	a := baseAuction()
	a.ProxyEnabled = false
	code, _ := domain.RejectCodeOf(ValidateCeiling(a, 200_000))
	require.Equal(t, domain.RejectProxyDisabled, code)

	a.ProxyEnabled = true
	require.NoError(t, ValidateCeiling(a, 100_000))

	a = apply(a, 120_000, 5)
	code, _ = domain.RejectCodeOf(ValidateCeiling(a, 120_000))
	require.Equal(t, domain.RejectBidTooLow, code)
	code, _ = domain.RejectCodeOf(ValidateCeiling(a, 127_000))
	require.Equal(t, domain.RejectInvalidStep, code)
}

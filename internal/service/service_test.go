package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
	"github.com/alanyoungcy/auctionhouse/internal/store/memory"
)

const seller = int64(1)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	clock     *clock
	bidding   *BiddingService
	lifecycle *LifecycleService
	orders    *OrderService
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := &clock{now: t0}
	store := memory.New(memory.WithClock(clk.Now))
	store.PutSetting(domain.SettingExtendWindowMinutes, "5")
	store.PutSetting(domain.SettingExtendMinutes, "10")

	logger := discardLogger()
	events := NewEventPublisher(nil, nil, logger)
	extend := NewExtendSettingsCache(store.Settings(), domain.ExtendSettings{
		Window:    5 * time.Minute,
		Extension: 10 * time.Minute,
	}, time.Minute, logger).WithClock(clk.Now)

	return &fixture{
		store: store,
		clock: clk,
		bidding: NewBiddingService(store, extend, events, BiddingConfig{
			MinRatingPercent: 80,
			HistoryLimit:     20,
			MaxHistoryLimit:  50,
		}, logger).WithClock(clk.Now),
		lifecycle: NewLifecycleService(store, events, 500, logger).WithClock(clk.Now),
		orders:    NewOrderService(store, events, logger).WithClock(clk.Now),
	}
}

func (f *fixture) auction(t *testing.T, mutate func(a *domain.Auction)) domain.Auction {
	t.Helper()
	a := domain.Auction{
		SellerID:            seller,
		Title:               "lot",
		StartPrice:          100_000,
		PriceStep:           5_000,
		ProxyEnabled:        true,
		AllowUnratedBidders: true,
		StartAt:             t0.Add(-time.Hour),
		EndAt:               t0.Add(time.Hour),
	}
	if mutate != nil {
		mutate(&a)
	}
	created, err := f.store.Auctions().Create(context.Background(), a)
	require.NoError(t, err)
	return created
}

func requireReject(t *testing.T, err error, want domain.RejectCode) {
	t.Helper()
	require.Error(t, err)
	code, ok := domain.RejectCodeOf(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	require.Equal(t, want, code)
}

func TestBidding_ProxyEscalationScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, nil)
	const alice, bob, carol = int64(10), int64(11), int64(12)

	pr, err := f.bidding.RegisterProxyBid(ctx, a.ID, alice, 150_000)
	require.NoError(t, err)
	require.True(t, pr.Triggered)
	require.Equal(t, int64(100_000), pr.Auction.CurrentPrice)
	require.True(t, pr.Auction.LeaderIs(alice))

	br, err := f.bidding.PlaceManualBid(ctx, a.ID, bob, 110_000)
	require.NoError(t, err)
	require.True(t, br.ProxyTriggered)
	require.Equal(t, int64(115_000), br.Auction.CurrentPrice)
	require.True(t, br.Auction.LeaderIs(alice))

	pr, err = f.bidding.RegisterProxyBid(ctx, a.ID, bob, 140_000)
	require.NoError(t, err)
	require.Equal(t, int64(145_000), pr.Auction.CurrentPrice)
	require.True(t, pr.Auction.LeaderIs(alice))

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, carol, 148_000)
	requireReject(t, err, domain.RejectBidTooLow)

	br, err = f.bidding.PlaceManualBid(ctx, a.ID, carol, 150_000)
	require.NoError(t, err)
	require.False(t, br.ProxyTriggered)
	require.Equal(t, int64(150_000), br.Auction.CurrentPrice)
	require.True(t, br.Auction.LeaderIs(carol))

	history, err := f.bidding.BidHistory(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Equal(t, int64(150_000), history[0].Amount)
	require.Equal(t, carol, history[0].BidderID)

	got, err := f.bidding.GetAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, len(history), got.BidCount)
}

func TestBidding_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, nil)

	_, err := f.bidding.PlaceManualBid(ctx, 9999, 10, 100_000)
	requireReject(t, err, domain.RejectAuctionNotFound)

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, seller, 100_000)
	requireReject(t, err, domain.RejectSelfBid)

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, 10, 102_000)
	requireReject(t, err, domain.RejectInvalidStep)

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, 10, 0)
	requireReject(t, err, domain.RejectInvalidAmount)

	strict := f.auction(t, func(a *domain.Auction) { a.AllowUnratedBidders = false })
	_, err = f.bidding.PlaceManualBid(ctx, strict.ID, 10, 100_000)
	requireReject(t, err, domain.RejectRatingRequired)

	noProxy := f.auction(t, func(a *domain.Auction) { a.ProxyEnabled = false })
	_, err = f.bidding.RegisterProxyBid(ctx, noProxy.ID, 10, 150_000)
	requireReject(t, err, domain.RejectProxyDisabled)

	ended := f.auction(t, func(a *domain.Auction) { a.EndAt = t0.Add(-time.Second) })
	_, err = f.bidding.PlaceManualBid(ctx, ended.ID, 10, 100_000)
	requireReject(t, err, domain.RejectAuctionEnded)

	future := f.auction(t, func(a *domain.Auction) { a.StartAt = t0.Add(time.Minute) })
	_, err = f.bidding.PlaceManualBid(ctx, future.ID, 10, 100_000)
	requireReject(t, err, domain.RejectAuctionNotStarted)

	got, err := f.bidding.GetAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Zero(t, got.BidCount)
	require.False(t, got.HasLeader())
}

func TestBidding_ConcurrentBidsSerialize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, func(a *domain.Auction) { a.ProxyEnabled = false })

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.bidding.PlaceManualBid(ctx, a.ID, int64(100+i), 100_000+int64(i)*5_000)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		requireReject(t, err, domain.RejectBidTooLow)
	}

	got, err := f.bidding.GetAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, accepted, got.BidCount)
	require.Equal(t, int64(195_000), got.CurrentPrice)
	require.True(t, got.LeaderIs(119))

	bids, err := f.store.Bids().ListChronological(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, bids, accepted)
	for i := 1; i < len(bids); i++ {
		require.Greater(t, bids[i].Amount, bids[i-1].Amount)
	}
}

func TestBidding_AntiSnipingExtendsFromBidTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, func(a *domain.Auction) {
		a.AutoExtend = true
		a.EndAt = t0.Add(time.Minute)
	})

	res, err := f.bidding.PlaceManualBid(ctx, a.ID, 10, 100_000)
	require.NoError(t, err)
	require.True(t, res.Extended)
	require.Equal(t, t0.Add(10*time.Minute), res.Auction.EndAt)

	got, err := f.bidding.GetAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, t0.Add(10*time.Minute), got.EndAt)

	// Outside the window nothing moves.
	res, err = f.bidding.PlaceManualBid(ctx, a.ID, 11, 105_000)
	require.NoError(t, err)
	require.False(t, res.Extended)
	require.Equal(t, t0.Add(10*time.Minute), res.Auction.EndAt)
}

func TestBidding_BuyNow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	price := int64(300_000)
	a := f.auction(t, func(a *domain.Auction) { a.BuyNowPrice = &price })

	_, err := f.bidding.RegisterProxyBid(ctx, a.ID, 10, 200_000)
	require.NoError(t, err)

	res, err := f.bidding.BuyNow(ctx, a.ID, 11)
	require.NoError(t, err)
	require.Equal(t, domain.AuctionStatusEnded, res.Auction.Status)
	require.Equal(t, int64(11), res.Order.WinnerID)
	require.Equal(t, price, res.Order.FinalPrice)
	require.Equal(t, domain.OrderStatusWaitingBuyerDetails, res.Order.Status)

	proxies, err := f.store.Proxies().ListByAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, proxies)

	_, err = f.bidding.BuyNow(ctx, a.ID, 12)
	requireReject(t, err, domain.RejectAuctionEnded)

	plain := f.auction(t, nil)
	_, err = f.bidding.BuyNow(ctx, plain.ID, 11)
	requireReject(t, err, domain.RejectNoBuyNow)
}

func TestBidding_RejectBidderRecomputesLeader(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, func(a *domain.Auction) { a.ProxyEnabled = false })

	_, err := f.bidding.PlaceManualBid(ctx, a.ID, 10, 100_000)
	require.NoError(t, err)
	_, err = f.bidding.PlaceManualBid(ctx, a.ID, 11, 105_000)
	require.NoError(t, err)

	_, err = f.bidding.RejectBidder(ctx, a.ID, 99, 11, "spam")
	require.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.bidding.RejectBidder(ctx, a.ID, seller, 11, "unpaid history")
	require.NoError(t, err)
	require.True(t, got.LeaderIs(10))
	require.Equal(t, int64(100_000), got.CurrentPrice)
	require.Equal(t, 1, got.BidCount)

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, 11, 110_000)
	requireReject(t, err, domain.RejectBlacklisted)

	got, err = f.bidding.RejectBidder(ctx, a.ID, seller, 10, "")
	require.NoError(t, err)
	require.False(t, got.HasLeader())
	require.Equal(t, a.StartPrice, got.CurrentPrice)
	require.Zero(t, got.BidCount)
}

func TestBidding_RejectBidderReplaysProxyPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, nil)
	const alice, bob, carol = int64(10), int64(11), int64(12)

	_, err := f.bidding.RegisterProxyBid(ctx, a.ID, alice, 200_000)
	require.NoError(t, err)
	_, err = f.bidding.PlaceManualBid(ctx, a.ID, bob, 110_000)
	require.NoError(t, err)
	br, err := f.bidding.PlaceManualBid(ctx, a.ID, carol, 150_000)
	require.NoError(t, err)
	require.Equal(t, int64(155_000), br.Auction.CurrentPrice)
	require.True(t, br.Auction.LeaderIs(alice))

	got, err := f.bidding.RejectBidder(ctx, a.ID, seller, carol, "shill")
	require.NoError(t, err)
	require.True(t, got.LeaderIs(alice))
	require.Equal(t, int64(115_000), got.CurrentPrice)
	require.Equal(t, 3, got.BidCount)

	history, err := f.bidding.BidHistory(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Equal(t, int64(115_000), history[0].Amount)
	require.Equal(t, alice, history[0].BidderID)

	got, err = f.bidding.RejectBidder(ctx, a.ID, seller, bob, "")
	require.NoError(t, err)
	require.True(t, got.LeaderIs(alice))
	require.Equal(t, a.StartPrice, got.CurrentPrice)
	require.Equal(t, 1, got.BidCount)
}

func TestLifecycle_FinalizeDueCreatesOneOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	winner := int64(10)
	a := f.auction(t, func(a *domain.Auction) {
		a.EndAt = t0.Add(-time.Minute)
		a.CurrentPrice = 120_000
		a.CurrentBidderID = &winner
		a.BidCount = 3
	})

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan FinalizeSummary, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sum, err := f.lifecycle.FinalizeDue(ctx)
			results <- sum
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	processed := 0
	for sum := range results {
		processed += sum.Processed
		require.Zero(t, sum.Failed)
	}
	require.Equal(t, 1, processed)

	order, err := f.store.Orders().GetByAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, winner, order.WinnerID)
	require.Equal(t, int64(120_000), order.FinalPrice)
	require.Equal(t, domain.OrderStatusWaitingBuyerDetails, order.Status)

	got, err := f.bidding.GetAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AuctionStatusEnded, got.Status)

	sum, err := f.lifecycle.FinalizeDue(ctx)
	require.NoError(t, err)
	require.Equal(t, FinalizeSummary{}, sum)
}

func TestLifecycle_FinalizeWithoutBids(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, func(a *domain.Auction) { a.EndAt = t0.Add(-time.Second) })
	f.auction(t, nil)

	sum, err := f.lifecycle.FinalizeDue(ctx)
	require.NoError(t, err)
	require.Equal(t, FinalizeSummary{Processed: 1, WithoutWinner: 1}, sum)

	_, err = f.store.Orders().GetByAuction(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycle_FinalizeAfterClockPassesEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, nil)

	_, err := f.bidding.RegisterProxyBid(ctx, a.ID, 10, 150_000)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	sum, err := f.lifecycle.FinalizeDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Processed)
	require.Zero(t, sum.WithoutWinner)

	proxies, err := f.store.Proxies().ListByAuction(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, proxies)

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, 11, 200_000)
	requireReject(t, err, domain.RejectAuctionEnded)
}

func TestLifecycle_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.auction(t, nil)

	require.NoError(t, f.lifecycle.Remove(ctx, a.ID, "counterfeit"))
	err := f.lifecycle.Remove(ctx, a.ID, "again")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.bidding.PlaceManualBid(ctx, a.ID, 10, 100_000)
	requireReject(t, err, domain.RejectAuctionNotActive)

	err = f.lifecycle.Remove(ctx, 9999, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtendSettingsCache(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: t0}
	store := memory.New()
	store.PutSetting(domain.SettingExtendWindowMinutes, "7")

	defaults := domain.ExtendSettings{Window: 5 * time.Minute, Extension: 10 * time.Minute}
	cache := NewExtendSettingsCache(store.Settings(), defaults, time.Minute, discardLogger()).WithClock(clk.Now)

	got := cache.Get(ctx)
	require.Equal(t, 7*time.Minute, got.Window)
	require.Equal(t, 10*time.Minute, got.Extension)

	store.PutSetting(domain.SettingExtendWindowMinutes, "9")
	require.Equal(t, 7*time.Minute, cache.Get(ctx).Window)

	clk.Advance(2 * time.Minute)
	require.Equal(t, 9*time.Minute, cache.Get(ctx).Window)

	store.PutSetting(domain.SettingExtendWindowMinutes, "bogus")
	cache.Invalidate()
	require.Equal(t, 5*time.Minute, cache.Get(ctx).Window)
}

type flakySettings struct {
	mu     sync.Mutex
	calls  int
	err    error
	values map[string]string
}

func (f *flakySettings) Get(_ context.Context, _ ...string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func (f *flakySettings) set(values map[string]string, err error) {
	f.mu.Lock()
	f.values, f.err = values, err
	f.mu.Unlock()
}

func (f *flakySettings) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestExtendSettingsCache_StoreOutageHoldsFallback(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: t0}
	defaults := domain.ExtendSettings{Window: 5 * time.Minute, Extension: 10 * time.Minute}
	store := &flakySettings{err: errors.New("settings table unavailable")}
	cache := NewExtendSettingsCache(store, defaults, time.Minute, discardLogger()).WithClock(clk.Now)

	require.Equal(t, defaults, cache.Get(ctx))
	require.Equal(t, defaults, cache.Get(ctx))
	require.Equal(t, 1, store.callCount())

	store.set(map[string]string{domain.SettingExtendWindowMinutes: "3"}, nil)
	clk.Advance(2 * time.Minute)
	require.Equal(t, 3*time.Minute, cache.Get(ctx).Window)
	require.Equal(t, 2, store.callCount())

	store.set(nil, errors.New("settings table unavailable"))
	clk.Advance(2 * time.Minute)
	require.Equal(t, 3*time.Minute, cache.Get(ctx).Window)
	require.Equal(t, 3*time.Minute, cache.Get(ctx).Window)
	require.Equal(t, 3, store.callCount())
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
	"github.com/alanyoungcy/auctionhouse/internal/engine"
)

// BiddingConfig holds the bidding rules that are not stored per auction.
type BiddingConfig struct {
	MinRatingPercent int
	HistoryLimit     int
	MaxHistoryLimit  int
}

// BidResult is returned for an accepted manual bid.
type BidResult struct {
	Auction        domain.Auction
	Bid            domain.Bid
	ProxyTriggered bool
	Extended       bool
}

// ProxyResult is returned for an accepted proxy registration.
type ProxyResult struct {
	Auction    domain.Auction
	Commitment domain.ProxyCommitment
	Triggered  bool
	Extended   bool
}

// BuyNowResult is returned when an auction is bought outright.
type BuyNowResult struct {
	Auction domain.Auction
	Order   domain.Order
}

// BiddingService places bids and proxy commitments. Every operation runs in
// one transaction holding the auction row lock, so concurrent bids on the
// same auction are serialized and validated against the latest state.
type BiddingService struct {
	repo   domain.Repository
	extend *ExtendSettingsCache
	events *EventPublisher
	cfg    BiddingConfig
	now    func() time.Time
	logger *slog.Logger
}

// NewBiddingService creates a BiddingService.
func NewBiddingService(
	repo domain.Repository,
	extend *ExtendSettingsCache,
	events *EventPublisher,
	cfg BiddingConfig,
	logger *slog.Logger,
) *BiddingService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.MaxHistoryLimit < cfg.HistoryLimit {
		cfg.MaxHistoryLimit = cfg.HistoryLimit
	}
	return &BiddingService{
		repo:   repo,
		extend: extend,
		events: events,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With(slog.String("component", "bidding_service")),
	}
}

// WithClock replaces the time source.
func (s *BiddingService) WithClock(now func() time.Time) *BiddingService {
	s.now = now
	return s
}

// PlaceManualBid records a bid of amount by bidderID, lets standing proxy
// commitments answer it and applies the anti-sniping extension.
func (s *BiddingService) PlaceManualBid(ctx context.Context, auctionID, bidderID, amount int64) (BidResult, error) {
	settings := s.extend.Get(ctx)

	var res BidResult
	var events []domain.AuctionEvent
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		now := s.now()
		a, err := lockOpen(ctx, tx, auctionID, now)
		if err != nil {
			return err
		}
		if err := s.checkBidder(ctx, tx, a, bidderID); err != nil {
			return err
		}
		if err := engine.ValidateBid(a, amount); err != nil {
			return err
		}
		before := a

		res.Bid, err = tx.Bids().Insert(ctx, domain.Bid{
			AuctionID: a.ID,
			BidderID:  bidderID,
			Amount:    amount,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		a, err = tx.Auctions().ApplyPriceUpdate(ctx, a.ID, amount, bidderID)
		if err != nil {
			return err
		}

		if a.ProxyEnabled {
			var out engine.Outcome
			a, out, err = applyProxies(ctx, tx, a, now)
			if err != nil {
				return err
			}
			res.ProxyTriggered = out.Changed
		}

		a, res.Extended, err = extendIfSniped(ctx, tx, a, now, settings)
		if err != nil {
			return err
		}
		res.Auction = a
		events = priceEvents(before, a, domain.EventBidPlaced, bidderID, res.Extended)
		return nil
	})
	if err != nil {
		return BidResult{}, fmt.Errorf("bidding_service: place bid on auction %d: %w", auctionID, err)
	}

	s.events.Publish(ctx, events...)
	s.logger.InfoContext(ctx, "bidding_service: bid accepted",
		slog.Int64("auction_id", auctionID),
		slog.Int64("bidder_id", bidderID),
		slog.Int64("amount", amount),
		slog.Int64("price", res.Auction.CurrentPrice),
		slog.Bool("proxy_triggered", res.ProxyTriggered),
		slog.Bool("extended", res.Extended),
	)
	return res, nil
}

// RegisterProxyBid stores or raises bidderID's ceiling and recalculates the
// auction.
func (s *BiddingService) RegisterProxyBid(ctx context.Context, auctionID, bidderID, maxAmount int64) (ProxyResult, error) {
	settings := s.extend.Get(ctx)

	var res ProxyResult
	var events []domain.AuctionEvent
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		now := s.now()
		a, err := lockOpen(ctx, tx, auctionID, now)
		if err != nil {
			return err
		}
		if err := s.checkBidder(ctx, tx, a, bidderID); err != nil {
			return err
		}
		if err := engine.ValidateCeiling(a, maxAmount); err != nil {
			return err
		}
		before := a

		res.Commitment, err = tx.Proxies().Upsert(ctx, domain.ProxyCommitment{
			AuctionID: a.ID,
			BidderID:  bidderID,
			MaxAmount: maxAmount,
		})
		if err != nil {
			return err
		}

		var out engine.Outcome
		a, out, err = applyProxies(ctx, tx, a, now)
		if err != nil {
			return err
		}
		res.Triggered = out.Changed

		if out.Changed {
			a, res.Extended, err = extendIfSniped(ctx, tx, a, now, settings)
			if err != nil {
				return err
			}
			events = priceEvents(before, a, domain.EventProxyBid, bidderID, res.Extended)
		}
		res.Auction = a
		return nil
	})
	if err != nil {
		return ProxyResult{}, fmt.Errorf("bidding_service: register proxy bid on auction %d: %w", auctionID, err)
	}

	s.events.Publish(ctx, events...)
	s.logger.InfoContext(ctx, "bidding_service: proxy bid registered",
		slog.Int64("auction_id", auctionID),
		slog.Int64("bidder_id", bidderID),
		slog.Int64("max_amount", maxAmount),
		slog.Int64("price", res.Auction.CurrentPrice),
		slog.Bool("triggered", res.Triggered),
	)
	return res, nil
}

// BuyNow ends the auction immediately at its buy-now price and creates the
// order in the same transaction.
func (s *BiddingService) BuyNow(ctx context.Context, auctionID, bidderID int64) (BuyNowResult, error) {
	var res BuyNowResult
	var events []domain.AuctionEvent
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		now := s.now()
		a, err := lockOpen(ctx, tx, auctionID, now)
		if err != nil {
			return err
		}
		if err := s.checkBidder(ctx, tx, a, bidderID); err != nil {
			return err
		}
		if a.BuyNowPrice == nil {
			return domain.Reject(domain.RejectNoBuyNow, "auction %d has no buy-now price", a.ID)
		}
		price := *a.BuyNowPrice
		if a.HasLeader() && price <= a.CurrentPrice {
			return domain.Reject(domain.RejectNoBuyNow, "bidding on auction %d has passed the buy-now price", a.ID)
		}
		before := a

		if _, err := tx.Bids().Insert(ctx, domain.Bid{
			AuctionID: a.ID,
			BidderID:  bidderID,
			Amount:    price,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if _, err := tx.Proxies().DeleteByAuction(ctx, a.ID); err != nil {
			return err
		}
		if a, err = tx.Auctions().ApplyPriceUpdate(ctx, a.ID, price, bidderID); err != nil {
			return err
		}
		if err := tx.Auctions().UpdateEndAt(ctx, a.ID, now); err != nil {
			return err
		}
		if err := tx.Auctions().SetStatus(ctx, a.ID, domain.AuctionStatusEnded); err != nil {
			return err
		}
		a.EndAt, a.Status = now, domain.AuctionStatusEnded

		order, created, err := tx.Orders().CreateOnce(ctx, domain.OrderForAuction(a, now))
		if err != nil {
			return err
		}
		if err := tx.Audit().Log(ctx, "auction.bought_now", map[string]any{
			"auction_id": a.ID,
			"winner_id":  bidderID,
			"price":      price,
			"order_id":   order.ID,
		}); err != nil {
			return err
		}

		res = BuyNowResult{Auction: a, Order: order}
		events = append(events, domain.AuctionEvent{
			Type:       domain.EventBoughtNow,
			AuctionID:  a.ID,
			UserID:     bidderID,
			Price:      price,
			Recipients: []int64{a.SellerID, bidderID},
		})
		events = append(events, outbidEvents(before, a, bidderID)...)
		if created {
			events = append(events, orderCreatedEvent(order))
		}
		return nil
	})
	if err != nil {
		return BuyNowResult{}, fmt.Errorf("bidding_service: buy now on auction %d: %w", auctionID, err)
	}

	s.events.Publish(ctx, events...)
	s.logger.InfoContext(ctx, "bidding_service: auction bought now",
		slog.Int64("auction_id", auctionID),
		slog.Int64("bidder_id", bidderID),
		slog.Int64("order_id", res.Order.ID),
	)
	return res, nil
}

// RejectBidder lets the seller deny a bidder: the bidder's bids and proxy
// commitment are removed and the leader is recomputed from what remains.
func (s *BiddingService) RejectBidder(ctx context.Context, auctionID, sellerID, bidderID int64, reason string) (domain.Auction, error) {
	var res domain.Auction
	var events []domain.AuctionEvent
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx domain.Stores) error {
		a, err := lockAuction(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if a.SellerID != sellerID {
			return fmt.Errorf("user %d is not the seller: %w", sellerID, domain.ErrForbidden)
		}
		if bidderID == sellerID {
			return domain.Invalid("seller cannot reject themselves")
		}
		if a.Status != domain.AuctionStatusActive {
			return domain.Reject(domain.RejectAuctionNotActive, "auction %d is %s", a.ID, a.Status)
		}

		if err := tx.Blacklist().Add(ctx, domain.BlacklistEntry{
			AuctionID: a.ID,
			BidderID:  bidderID,
			Reason:    reason,
			CreatedAt: s.now(),
		}); err != nil {
			return err
		}
		removed, err := tx.Bids().DeleteByBidder(ctx, a.ID, bidderID)
		if err != nil {
			return err
		}
		if err := tx.Proxies().DeleteByBidder(ctx, a.ID, bidderID); err != nil {
			return err
		}

		if a.ProxyEnabled {
			if err := withdrawStaleProxyBids(ctx, tx, a, s.now()); err != nil {
				return err
			}
		}
		if a, err = recomputeLeader(ctx, tx, a); err != nil {
			return err
		}
		if a.ProxyEnabled {
			if a, _, err = applyProxies(ctx, tx, a, s.now()); err != nil {
				return err
			}
		}
		if err := tx.Audit().Log(ctx, "bidder.rejected", map[string]any{
			"auction_id":   a.ID,
			"bidder_id":    bidderID,
			"bids_removed": removed,
			"reason":       reason,
		}); err != nil {
			return err
		}

		res = a
		events = append(events, domain.AuctionEvent{
			Type:       domain.EventBidderRejected,
			AuctionID:  a.ID,
			UserID:     bidderID,
			Price:      a.CurrentPrice,
			Recipients: []int64{bidderID},
		})
		return nil
	})
	if err != nil {
		return domain.Auction{}, fmt.Errorf("bidding_service: reject bidder %d on auction %d: %w", bidderID, auctionID, err)
	}

	s.events.Publish(ctx, events...)
	s.logger.InfoContext(ctx, "bidding_service: bidder rejected",
		slog.Int64("auction_id", auctionID),
		slog.Int64("bidder_id", bidderID),
		slog.Int64("price", res.CurrentPrice),
	)
	return res, nil
}

// GetAuction returns the auction's current state.
func (s *BiddingService) GetAuction(ctx context.Context, auctionID int64) (domain.Auction, error) {
	a, err := s.repo.Auctions().Get(ctx, auctionID)
	if err != nil {
		return domain.Auction{}, fmt.Errorf("bidding_service: get auction %d: %w", auctionID, err)
	}
	return a, nil
}

// BidHistory returns the highest bids first. limit is clamped to the
// configured default and maximum.
func (s *BiddingService) BidHistory(ctx context.Context, auctionID int64, limit int) ([]domain.Bid, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	limit = min(limit, s.cfg.MaxHistoryLimit)

	if _, err := s.repo.Auctions().Get(ctx, auctionID); err != nil {
		return nil, fmt.Errorf("bidding_service: bid history %d: %w", auctionID, err)
	}
	bids, err := s.repo.Bids().ListByAuction(ctx, auctionID, limit)
	if err != nil {
		return nil, fmt.Errorf("bidding_service: bid history %d: %w", auctionID, err)
	}
	return bids, nil
}

func (s *BiddingService) checkBidder(ctx context.Context, tx domain.Stores, a domain.Auction, bidderID int64) error {
	b := engine.Bidder{ID: bidderID}
	if bidderID != a.SellerID {
		var err error
		if b.Blacklisted, err = tx.Blacklist().Contains(ctx, a.ID, bidderID); err != nil {
			return err
		}
		if b.Rating, err = tx.Ratings().Summary(ctx, bidderID); err != nil {
			return err
		}
	}
	return engine.CheckEligibility(a, b, s.cfg.MinRatingPercent)
}

// lockAuction locks the row, turning a missing auction into a rejection.
func lockAuction(ctx context.Context, tx domain.Stores, auctionID int64) (domain.Auction, error) {
	a, err := tx.Auctions().LockForUpdate(ctx, auctionID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Auction{}, domain.Reject(domain.RejectAuctionNotFound, "auction %d does not exist", auctionID)
	}
	return a, err
}

func lockOpen(ctx context.Context, tx domain.Stores, auctionID int64, now time.Time) (domain.Auction, error) {
	a, err := lockAuction(ctx, tx, auctionID)
	if err != nil {
		return domain.Auction{}, err
	}
	if err := engine.CheckOpen(a, now); err != nil {
		return domain.Auction{}, err
	}
	return a, nil
}

// applyProxies runs proxy recalculation and, when it changes the leader or
// price, records the system bid and applies it.
func applyProxies(ctx context.Context, tx domain.Stores, a domain.Auction, now time.Time) (domain.Auction, engine.Outcome, error) {
	commitments, err := tx.Proxies().ListByAuction(ctx, a.ID)
	if err != nil {
		return a, engine.Outcome{}, err
	}
	out := engine.Recalculate(a, commitments)
	if !out.Changed {
		return a, out, nil
	}

	if _, err := tx.Bids().Insert(ctx, domain.Bid{
		AuctionID: a.ID,
		BidderID:  out.BidderID,
		Amount:    out.Price,
		IsProxy:   true,
		CreatedAt: now,
	}); err != nil {
		return a, out, err
	}
	a, err = tx.Auctions().ApplyPriceUpdate(ctx, a.ID, out.Price, out.BidderID)
	return a, out, err
}

func extendIfSniped(ctx context.Context, tx domain.Stores, a domain.Auction, now time.Time, settings domain.ExtendSettings) (domain.Auction, bool, error) {
	end, ok := engine.ExtendedEnd(a, now, settings)
	if !ok {
		return a, false, nil
	}
	if err := tx.Auctions().UpdateEndAt(ctx, a.ID, end); err != nil {
		return a, false, err
	}
	a.EndAt = end
	return a, true, nil
}

// withdrawStaleProxyBids reprices a leading proxy whose system bids were
// pushed up by bids that are now gone. The price is replayed from the
// strongest remaining competitor; the leader's system bids above it are
// removed and one system bid at the replayed price is recorded.
func withdrawStaleProxyBids(ctx context.Context, tx domain.Stores, a domain.Auction, now time.Time) error {
	bids, err := tx.Bids().ListByAuction(ctx, a.ID, 0)
	if err != nil {
		return err
	}
	if len(bids) == 0 || !bids[0].IsProxy {
		return nil
	}
	leader := bids[0].BidderID

	base := a
	base.CurrentPrice, base.CurrentBidderID = a.StartPrice, nil
	var ownManual int64
	for _, b := range bids {
		if b.BidderID != leader {
			if !base.HasLeader() {
				id := b.BidderID
				base.CurrentPrice, base.CurrentBidderID = b.Amount, &id
			}
			continue
		}
		if !b.IsProxy {
			ownManual = max(ownManual, b.Amount)
		}
	}

	commitments, err := tx.Proxies().ListByAuction(ctx, a.ID)
	if err != nil {
		return err
	}
	out := engine.Recalculate(base, commitments)
	if !out.Changed || out.BidderID != leader {
		return nil
	}
	price := max(out.Price, ownManual)
	if price >= bids[0].Amount {
		return nil
	}

	if _, err := tx.Bids().DeleteProxyAbove(ctx, a.ID, leader, price); err != nil {
		return err
	}
	for _, b := range bids {
		if b.BidderID == leader && b.Amount == price {
			return nil
		}
	}
	_, err = tx.Bids().Insert(ctx, domain.Bid{
		AuctionID: a.ID,
		BidderID:  leader,
		Amount:    price,
		IsProxy:   true,
		CreatedAt: now,
	})
	return err
}

// recomputeLeader resets leader, price and bid count from the remaining
// ledger rows.
func recomputeLeader(ctx context.Context, tx domain.Stores, a domain.Auction) (domain.Auction, error) {
	top, err := tx.Bids().Top(ctx, a.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return tx.Auctions().ResetLeader(ctx, a.ID, a.StartPrice, nil, 0)
	}
	if err != nil {
		return a, err
	}
	count, err := tx.Bids().Count(ctx, a.ID)
	if err != nil {
		return a, err
	}
	return tx.Auctions().ResetLeader(ctx, a.ID, top.Amount, &top.BidderID, count)
}

func priceEvents(before, after domain.Auction, typ domain.EventType, actor int64, extended bool) []domain.AuctionEvent {
	events := []domain.AuctionEvent{{
		Type:       typ,
		AuctionID:  after.ID,
		UserID:     *after.CurrentBidderID,
		Price:      after.CurrentPrice,
		Recipients: []int64{after.SellerID, actor},
	}}
	events = append(events, outbidEvents(before, after, actor)...)
	if extended {
		end := after.EndAt
		events = append(events, domain.AuctionEvent{
			Type:      domain.EventAuctionExtended,
			AuctionID: after.ID,
			EndAt:     &end,
		})
	}
	return events
}

// outbidEvents notifies the previous leader and the acting bidder when either
// ended up without the lead.
func outbidEvents(before, after domain.Auction, actor int64) []domain.AuctionEvent {
	var losers []int64
	if before.HasLeader() && !after.LeaderIs(*before.CurrentBidderID) {
		losers = append(losers, *before.CurrentBidderID)
	}
	if !after.LeaderIs(actor) && !before.LeaderIs(actor) {
		losers = append(losers, actor)
	}

	events := make([]domain.AuctionEvent, 0, len(losers))
	for _, id := range losers {
		events = append(events, domain.AuctionEvent{
			Type:       domain.EventOutbid,
			AuctionID:  after.ID,
			UserID:     id,
			Price:      after.CurrentPrice,
			Recipients: []int64{id},
		})
	}
	return events
}

func orderCreatedEvent(o domain.Order) domain.AuctionEvent {
	return domain.AuctionEvent{
		Type:       domain.EventOrderCreated,
		AuctionID:  o.AuctionID,
		OrderID:    o.ID,
		UserID:     o.WinnerID,
		Price:      o.FinalPrice,
		Status:     string(o.Status),
		Recipients: []int64{o.SellerID, o.WinnerID},
	}
}

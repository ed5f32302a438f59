// Package memory is an in-process implementation of domain.Repository. It
// keeps the row-lock semantics of the Postgres store (blocking per-auction
// locks with a timeout, skip-locked claims, rollback on error, one order per
// auction) so services can be exercised without a database. Reads are not
// isolated from other transactions' uncommitted writes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const defaultLockTimeout = 3 * time.Second

type pairKey struct{ a, b int64 }

// Store holds all state behind a single mutex plus one lock per auction row.
type Store struct {
	mu          sync.Mutex
	lockTimeout time.Duration
	now         func() time.Time

	rowLocks map[int64]chan struct{}
	seq      int64

	// proxies and blacklist are keyed by (auction, bidder), ratings by
	// (order, rater). byAuction maps auction id to order id.
	auctions  map[int64]domain.Auction
	bids      map[int64][]domain.Bid
	proxies   map[pairKey]domain.ProxyCommitment
	orders    map[int64]domain.Order
	byAuction map[int64]int64
	blacklist map[pairKey]domain.BlacklistEntry
	ratings   map[pairKey]domain.Rating
	settings  map[string]string
	audit     []domain.AuditEntry
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long LockForUpdate waits for a busy row.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// WithClock overrides the time source used for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		lockTimeout: defaultLockTimeout,
		now:         time.Now,
		rowLocks:    make(map[int64]chan struct{}),
		auctions:    make(map[int64]domain.Auction),
		bids:        make(map[int64][]domain.Bid),
		proxies:     make(map[pairKey]domain.ProxyCommitment),
		orders:      make(map[int64]domain.Order),
		byAuction:   make(map[int64]int64),
		blacklist:   make(map[pairKey]domain.BlacklistEntry),
		ratings:     make(map[pairKey]domain.Rating),
		settings:    make(map[string]string),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PutSetting stores a key/value setting.
func (s *Store) PutSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}

// tx tracks held row locks and the undo log of one transaction.
type tx struct {
	held map[int64]bool
	undo []func()
}

// view binds the stores to a transaction; tx is nil outside WithinTx.
type view struct {
	s  *Store
	tx *tx
}

func (s *Store) root() *view { return &view{s: s} }

func (s *Store) Auctions() domain.AuctionStore    { return s.root().Auctions() }
func (s *Store) Bids() domain.BidStore            { return s.root().Bids() }
func (s *Store) Proxies() domain.ProxyStore       { return s.root().Proxies() }
func (s *Store) Orders() domain.OrderStore        { return s.root().Orders() }
func (s *Store) Blacklist() domain.BlacklistStore { return s.root().Blacklist() }
func (s *Store) Ratings() domain.RatingStore      { return s.root().Ratings() }
func (s *Store) Settings() domain.SettingStore    { return s.root().Settings() }
func (s *Store) Audit() domain.AuditStore         { return s.root().Audit() }

func (v *view) Auctions() domain.AuctionStore    { return auctionStore{v} }
func (v *view) Bids() domain.BidStore            { return bidStore{v} }
func (v *view) Proxies() domain.ProxyStore       { return proxyStore{v} }
func (v *view) Orders() domain.OrderStore        { return orderStore{v} }
func (v *view) Blacklist() domain.BlacklistStore { return blacklistStore{v} }
func (v *view) Ratings() domain.RatingStore      { return ratingStore{v} }
func (v *view) Settings() domain.SettingStore    { return settingStore{v} }
func (v *view) Audit() domain.AuditStore         { return auditStore{v} }

// WithinTx runs fn with stores bound to a new transaction. Writes are undone
// and row locks released when fn returns an error or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Stores) error) (err error) {
	t := &tx{held: make(map[int64]bool)}
	committed := false
	defer func() {
		if !committed {
			s.rollback(t)
		}
		s.releaseAll(t)
	}()

	if err := fn(ctx, &view{s: s, tx: t}); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (s *Store) releaseAll(t *tx) {
	for id := range t.held {
		s.release(t, id)
	}
}

func (s *Store) release(t *tx, id int64) {
	if !t.held[id] {
		return
	}
	delete(t.held, id)
	s.mu.Lock()
	ch := s.rowLocks[id]
	s.mu.Unlock()
	<-ch
}

func (s *Store) rowLock(id int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}
	return ch
}

// acquire takes the row lock for id, waiting up to the lock timeout.
func (s *Store) acquire(ctx context.Context, t *tx, id int64) error {
	if t.held[id] {
		return nil
	}
	ch := s.rowLock(id)
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		t.held[id] = true
		return nil
	case <-ctx.Done():
		return fmt.Errorf("memory: lock auction %d: %w", id, domain.ErrContention)
	case <-timer.C:
		return fmt.Errorf("memory: lock auction %d: %w", id, domain.ErrContention)
	}
}

// tryAcquire takes the row lock only if it is free.
func (s *Store) tryAcquire(t *tx, id int64) bool {
	if t.held[id] {
		return true
	}
	select {
	case s.rowLock(id) <- struct{}{}:
		t.held[id] = true
		return true
	default:
		return false
	}
}

// record appends an undo step. Caller holds s.mu.
func (v *view) record(fn func()) {
	if v.tx != nil {
		v.tx.undo = append(v.tx.undo, fn)
	}
}

func (v *view) requireLock(id int64) error {
	if v.tx == nil {
		return domain.ErrNotInTx
	}
	if !v.tx.held[id] {
		return fmt.Errorf("memory: auction %d is not locked: %w", id, domain.ErrNotInTx)
	}
	return nil
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// putAuction replaces an auction row and records the previous version.
// Caller holds s.mu.
func (v *view) putAuction(a domain.Auction) {
	prev := v.s.auctions[a.ID]
	v.s.auctions[a.ID] = a
	v.record(func() { v.s.auctions[a.ID] = prev })
}

// ── Auctions ──

type auctionStore struct{ *view }

func (st auctionStore) Create(_ context.Context, a domain.Auction) (domain.Auction, error) {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a.ID = s.nextID()
	if a.Status == "" {
		a.Status = domain.AuctionStatusActive
	}
	if a.CurrentPrice == 0 {
		a.CurrentPrice = a.StartPrice
	}
	a.CreatedAt, a.UpdatedAt = now, now
	s.auctions[a.ID] = a
	st.record(func() { delete(s.auctions, a.ID) })
	return a, nil
}

func (st auctionStore) Get(_ context.Context, id int64) (domain.Auction, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	a, ok := st.s.auctions[id]
	if !ok {
		return domain.Auction{}, fmt.Errorf("memory: get auction %d: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (st auctionStore) LockForUpdate(ctx context.Context, id int64) (domain.Auction, error) {
	if st.tx == nil {
		return domain.Auction{}, domain.ErrNotInTx
	}
	if _, err := st.Get(ctx, id); err != nil {
		return domain.Auction{}, err
	}
	if err := st.s.acquire(ctx, st.tx, id); err != nil {
		return domain.Auction{}, err
	}
	return st.Get(ctx, id)
}

func (st auctionStore) ClaimDue(_ context.Context, now time.Time, exclude []int64) (domain.Auction, error) {
	if st.tx == nil {
		return domain.Auction{}, domain.ErrNotInTx
	}
	skip := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	for _, id := range st.dueIDs(now, skip) {
		if !st.s.tryAcquire(st.tx, id) {
			continue
		}
		st.s.mu.Lock()
		a := st.s.auctions[id]
		st.s.mu.Unlock()
		// Another transaction may have finished it before releasing the lock.
		if a.Status == domain.AuctionStatusActive && !a.EndAt.After(now) {
			return a, nil
		}
		st.s.release(st.tx, id)
	}
	return domain.Auction{}, domain.ErrNotFound
}

func (st auctionStore) dueIDs(now time.Time, skip map[int64]bool) []int64 {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var due []domain.Auction
	for _, a := range st.s.auctions {
		if a.Status == domain.AuctionStatusActive && !a.EndAt.After(now) && !skip[a.ID] {
			due = append(due, a)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].EndAt.Equal(due[j].EndAt) {
			return due[i].EndAt.Before(due[j].EndAt)
		}
		return due[i].ID < due[j].ID
	})
	ids := make([]int64, len(due))
	for i, a := range due {
		ids[i] = a.ID
	}
	return ids
}

func (st auctionStore) update(id int64, fn func(*domain.Auction)) (domain.Auction, error) {
	if err := st.requireLock(id); err != nil {
		return domain.Auction{}, err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	a, ok := st.s.auctions[id]
	if !ok {
		return domain.Auction{}, fmt.Errorf("memory: update auction %d: %w", id, domain.ErrNotFound)
	}
	fn(&a)
	a.UpdatedAt = st.s.now()
	st.putAuction(a)
	return a, nil
}

func (st auctionStore) ApplyPriceUpdate(_ context.Context, id, price, bidderID int64) (domain.Auction, error) {
	return st.update(id, func(a *domain.Auction) {
		a.CurrentPrice = price
		a.CurrentBidderID = &bidderID
		a.BidCount++
	})
}

func (st auctionStore) ResetLeader(_ context.Context, id, price int64, bidderID *int64, bidCount int) (domain.Auction, error) {
	return st.update(id, func(a *domain.Auction) {
		a.CurrentPrice = price
		a.CurrentBidderID = bidderID
		a.BidCount = bidCount
	})
}

func (st auctionStore) UpdateEndAt(_ context.Context, id int64, endAt time.Time) error {
	_, err := st.update(id, func(a *domain.Auction) { a.EndAt = endAt })
	return err
}

func (st auctionStore) SetStatus(_ context.Context, id int64, status domain.AuctionStatus) error {
	_, err := st.update(id, func(a *domain.Auction) { a.Status = status })
	return err
}

func (st auctionStore) ListArchivable(_ context.Context, endedBefore time.Time, limit int) ([]domain.Auction, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var out []domain.Auction
	for _, a := range st.s.auctions {
		if a.Status == domain.AuctionStatusEnded && a.ArchivedAt == nil && a.EndAt.Before(endedBefore) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndAt.Before(out[j].EndAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (st auctionStore) MarkArchived(_ context.Context, id int64, at time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	a, ok := st.s.auctions[id]
	if !ok {
		return fmt.Errorf("memory: mark archived %d: %w", id, domain.ErrNotFound)
	}
	a.ArchivedAt = &at
	st.putAuction(a)
	return nil
}

// ── Bids ──

type bidStore struct{ *view }

func (st bidStore) Insert(_ context.Context, b domain.Bid) (domain.Bid, error) {
	if err := st.requireLock(b.AuctionID); err != nil {
		return domain.Bid{}, err
	}
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	prev := s.bids[b.AuctionID]
	s.bids[b.AuctionID] = append(prev[:len(prev):len(prev)], b)
	st.record(func() { s.bids[b.AuctionID] = prev })
	return b, nil
}

func (st bidStore) ListByAuction(_ context.Context, auctionID int64, limit int) ([]domain.Bid, error) {
	st.s.mu.Lock()
	out := append([]domain.Bid(nil), st.s.bids[auctionID]...)
	st.s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (st bidStore) ListChronological(_ context.Context, auctionID int64) ([]domain.Bid, error) {
	st.s.mu.Lock()
	out := append([]domain.Bid(nil), st.s.bids[auctionID]...)
	st.s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (st bidStore) Top(ctx context.Context, auctionID int64) (domain.Bid, error) {
	bids, _ := st.ListByAuction(ctx, auctionID, 1)
	if len(bids) == 0 {
		return domain.Bid{}, fmt.Errorf("memory: top bid %d: %w", auctionID, domain.ErrNotFound)
	}
	return bids[0], nil
}

func (st bidStore) Count(_ context.Context, auctionID int64) (int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return len(st.s.bids[auctionID]), nil
}

func (st bidStore) DeleteByBidder(_ context.Context, auctionID, bidderID int64) (int64, error) {
	if err := st.requireLock(auctionID); err != nil {
		return 0, err
	}
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.bids[auctionID]
	kept := make([]domain.Bid, 0, len(prev))
	for _, b := range prev {
		if b.BidderID != bidderID {
			kept = append(kept, b)
		}
	}
	s.bids[auctionID] = kept
	st.record(func() { s.bids[auctionID] = prev })
	return int64(len(prev) - len(kept)), nil
}

func (st bidStore) DeleteProxyAbove(_ context.Context, auctionID, bidderID, amount int64) (int64, error) {
	if err := st.requireLock(auctionID); err != nil {
		return 0, err
	}
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.bids[auctionID]
	kept := make([]domain.Bid, 0, len(prev))
	for _, b := range prev {
		if b.BidderID == bidderID && b.IsProxy && b.Amount > amount {
			continue
		}
		kept = append(kept, b)
	}
	s.bids[auctionID] = kept
	st.record(func() { s.bids[auctionID] = prev })
	return int64(len(prev) - len(kept)), nil
}

// ── Proxy commitments ──

type proxyStore struct{ *view }

func (st proxyStore) Upsert(_ context.Context, c domain.ProxyCommitment) (domain.ProxyCommitment, error) {
	if err := st.requireLock(c.AuctionID); err != nil {
		return domain.ProxyCommitment{}, err
	}
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{c.AuctionID, c.BidderID}
	now := s.now()
	prev, existed := s.proxies[k]
	if existed {
		c.ID, c.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		c.ID, c.CreatedAt = s.nextID(), now
	}
	c.UpdatedAt = now
	s.proxies[k] = c
	st.record(func() {
		if existed {
			s.proxies[k] = prev
		} else {
			delete(s.proxies, k)
		}
	})
	return c, nil
}

func (st proxyStore) ListByAuction(_ context.Context, auctionID int64) ([]domain.ProxyCommitment, error) {
	st.s.mu.Lock()
	var out []domain.ProxyCommitment
	for k, c := range st.s.proxies {
		if k.a == auctionID {
			out = append(out, c)
		}
	}
	st.s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxAmount != out[j].MaxAmount {
			return out[i].MaxAmount > out[j].MaxAmount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (st proxyStore) DeleteByAuction(_ context.Context, auctionID int64) (int64, error) {
	if err := st.requireLock(auctionID); err != nil {
		return 0, err
	}
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, c := range s.proxies {
		if k.a != auctionID {
			continue
		}
		delete(s.proxies, k)
		st.record(func() { s.proxies[k] = c })
		n++
	}
	return n, nil
}

func (st proxyStore) DeleteByBidder(_ context.Context, auctionID, bidderID int64) error {
	if err := st.requireLock(auctionID); err != nil {
		return err
	}
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{auctionID, bidderID}
	if c, ok := s.proxies[k]; ok {
		delete(s.proxies, k)
		st.record(func() { s.proxies[k] = c })
	}
	return nil
}

// ── Orders ──

type orderStore struct{ *view }

func (st orderStore) CreateOnce(_ context.Context, o domain.Order) (domain.Order, bool, error) {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byAuction[o.AuctionID]; ok {
		return s.orders[id], false, nil
	}
	now := s.now()
	o.ID = s.nextID()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt
	s.orders[o.ID] = o
	s.byAuction[o.AuctionID] = o.ID
	st.record(func() {
		delete(s.orders, o.ID)
		delete(s.byAuction, o.AuctionID)
	})
	return o, true, nil
}

func (st orderStore) GetByID(_ context.Context, id int64) (domain.Order, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	o, ok := st.s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("memory: get order %d: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

// GetForUpdate locks the order through its auction's row lock; orders and
// auctions are one-to-one.
func (st orderStore) GetForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	if st.tx == nil {
		return domain.Order{}, domain.ErrNotInTx
	}
	o, err := st.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := st.s.acquire(ctx, st.tx, o.AuctionID); err != nil {
		return domain.Order{}, err
	}
	return st.GetByID(ctx, id)
}

func (st orderStore) GetByAuction(_ context.Context, auctionID int64) (domain.Order, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	id, ok := st.s.byAuction[auctionID]
	if !ok {
		return domain.Order{}, fmt.Errorf("memory: order for auction %d: %w", auctionID, domain.ErrNotFound)
	}
	return st.s.orders[id], nil
}

func (st orderStore) ListForUser(_ context.Context, userID int64, opts domain.ListOpts) ([]domain.Order, error) {
	st.s.mu.Lock()
	var out []domain.Order
	for _, o := range st.s.orders {
		if o.IsParticipant(userID) {
			out = append(out, o)
		}
	}
	st.s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (st orderStore) Update(_ context.Context, o domain.Order) error {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.orders[o.ID]
	if !ok {
		return fmt.Errorf("memory: update order %d: %w", o.ID, domain.ErrNotFound)
	}
	o.UpdatedAt = s.now()
	s.orders[o.ID] = o
	st.record(func() { s.orders[o.ID] = prev })
	return nil
}

// ── Blacklist ──

type blacklistStore struct{ *view }

func (st blacklistStore) Add(_ context.Context, e domain.BlacklistEntry) error {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{e.AuctionID, e.BidderID}
	prev, existed := s.blacklist[k]
	if existed {
		e.CreatedAt = prev.CreatedAt
	} else if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.blacklist[k] = e
	st.record(func() {
		if existed {
			s.blacklist[k] = prev
		} else {
			delete(s.blacklist, k)
		}
	})
	return nil
}

func (st blacklistStore) Contains(_ context.Context, auctionID, bidderID int64) (bool, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	_, ok := st.s.blacklist[pairKey{auctionID, bidderID}]
	return ok, nil
}

// ── Ratings ──

type ratingStore struct{ *view }

func (st ratingStore) Upsert(_ context.Context, r domain.Rating) error {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pairKey{r.OrderID, r.RaterID}
	now := s.now()
	prev, existed := s.ratings[k]
	if existed {
		r.ID, r.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		r.ID, r.CreatedAt = s.nextID(), now
	}
	r.UpdatedAt = now
	s.ratings[k] = r
	st.record(func() {
		if existed {
			s.ratings[k] = prev
		} else {
			delete(s.ratings, k)
		}
	})
	return nil
}

func (st ratingStore) Summary(_ context.Context, userID int64) (domain.RatingSummary, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	var sum domain.RatingSummary
	for _, r := range st.s.ratings {
		if r.RatedUserID != userID {
			continue
		}
		if r.Score > 0 {
			sum.Positive++
		} else {
			sum.Negative++
		}
	}
	return sum, nil
}

// ── Settings ──

type settingStore struct{ *view }

func (st settingStore) Get(_ context.Context, keys ...string) (map[string]string, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := st.s.settings[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// ── Audit ──

type auditStore struct{ *view }

func (st auditStore) Log(_ context.Context, event string, detail map[string]any) error {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.AuditEntry{
		ID:        s.nextID(),
		Event:     event,
		Detail:    detail,
		CreatedAt: s.now(),
	}
	s.audit = append(s.audit, entry)
	st.record(func() {
		for i := range s.audit {
			if s.audit[i].ID == entry.ID {
				s.audit = append(s.audit[:i:i], s.audit[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (st auditStore) List(_ context.Context, opts domain.ListOpts) ([]domain.AuditEntry, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	out := make([]domain.AuditEntry, 0, len(st.s.audit))
	for i := len(st.s.audit) - 1; i >= 0; i-- {
		out = append(out, st.s.audit[i])
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Compile-time interface check.
var _ domain.Repository = (*Store)(nil)

package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// AuctionStore persists auction records. LockForUpdate and the mutators are
// only valid inside a transaction obtained from Transactor.WithinTx.
type AuctionStore interface {
	Create(ctx context.Context, a Auction) (Auction, error)
	Get(ctx context.Context, id int64) (Auction, error)
	// LockForUpdate reads the row and holds an exclusive lock on it until the
	// transaction ends.
	LockForUpdate(ctx context.Context, id int64) (Auction, error)
	// ClaimDue locks one ACTIVE auction whose end time has passed, skipping
	// rows locked by other transactions and the excluded ids. It returns
	// ErrNotFound when nothing is claimable.
	ClaimDue(ctx context.Context, now time.Time, exclude []int64) (Auction, error)
	// ApplyPriceUpdate stamps a new leader and price and increments BidCount.
	ApplyPriceUpdate(ctx context.Context, id, price, bidderID int64) (Auction, error)
	// ResetLeader overwrites leader, price and bid count after bids were
	// removed from the ledger.
	ResetLeader(ctx context.Context, id, price int64, bidderID *int64, bidCount int) (Auction, error)
	UpdateEndAt(ctx context.Context, id int64, endAt time.Time) error
	SetStatus(ctx context.Context, id int64, status AuctionStatus) error
	ListArchivable(ctx context.Context, endedBefore time.Time, limit int) ([]Auction, error)
	MarkArchived(ctx context.Context, id int64, at time.Time) error
}

// BidStore is the append-only bid ledger.
type BidStore interface {
	Insert(ctx context.Context, b Bid) (Bid, error)
	// ListByAuction orders by amount desc, then newest first.
	ListByAuction(ctx context.Context, auctionID int64, limit int) ([]Bid, error)
	// ListChronological orders by placement time, oldest first.
	ListChronological(ctx context.Context, auctionID int64) ([]Bid, error)
	Top(ctx context.Context, auctionID int64) (Bid, error)
	Count(ctx context.Context, auctionID int64) (int, error)
	DeleteByBidder(ctx context.Context, auctionID, bidderID int64) (int64, error)
	// DeleteProxyAbove removes the bidder's system bids priced above amount.
	DeleteProxyAbove(ctx context.Context, auctionID, bidderID, amount int64) (int64, error)
}

// ProxyStore is the proxy-bid registry.
type ProxyStore interface {
	// Upsert stores the commitment; an existing (auction, bidder) row keeps
	// its CreatedAt and takes the new MaxAmount.
	Upsert(ctx context.Context, c ProxyCommitment) (ProxyCommitment, error)
	// ListByAuction orders by MaxAmount desc, then CreatedAt asc.
	ListByAuction(ctx context.Context, auctionID int64) ([]ProxyCommitment, error)
	DeleteByAuction(ctx context.Context, auctionID int64) (int64, error)
	DeleteByBidder(ctx context.Context, auctionID, bidderID int64) error
}

// OrderStore persists post-auction orders.
type OrderStore interface {
	// CreateOnce inserts the order unless one exists for the auction. It
	// returns the stored order and whether this call created it.
	CreateOnce(ctx context.Context, o Order) (Order, bool, error)
	GetByID(ctx context.Context, id int64) (Order, error)
	// GetForUpdate reads the order and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (Order, error)
	GetByAuction(ctx context.Context, auctionID int64) (Order, error)
	ListForUser(ctx context.Context, userID int64, opts ListOpts) ([]Order, error)
	Update(ctx context.Context, o Order) error
}

// BlacklistStore holds per-auction bidder denials.
type BlacklistStore interface {
	Add(ctx context.Context, e BlacklistEntry) error
	Contains(ctx context.Context, auctionID, bidderID int64) (bool, error)
}

// RatingStore persists participant ratings.
type RatingStore interface {
	Upsert(ctx context.Context, r Rating) error
	Summary(ctx context.Context, userID int64) (RatingSummary, error)
}

// SettingStore reads operator-tunable key/value settings.
type SettingStore interface {
	Get(ctx context.Context, keys ...string) (map[string]string, error)
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        int64
	Event     string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}

// Stores groups every store bound to one connection or transaction.
type Stores interface {
	Auctions() AuctionStore
	Bids() BidStore
	Proxies() ProxyStore
	Orders() OrderStore
	Blacklist() BlacklistStore
	Ratings() RatingStore
	Settings() SettingStore
	Audit() AuditStore
}

// Transactor runs fn inside one transaction. A non-nil error from fn rolls
// back everything fn wrote.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}

// Repository is the full persistence surface used by the services.
type Repository interface {
	Stores
	Transactor
}

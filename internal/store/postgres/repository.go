package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner abstracts pgx.Row and pgx.Rows so scan helpers serve both.
type scanner interface {
	Scan(dest ...any) error
}

// Repository implements domain.Repository on a pgx pool.
type Repository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
	stores
}

// NewRepository creates a Repository. lockTimeout is applied with SET LOCAL
// to every transaction started by WithinTx.
func NewRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *Repository {
	return &Repository{
		pool:        pool,
		lockTimeout: lockTimeout,
		stores:      stores{db: pool},
	}
}

// WithinTx runs fn in a single transaction. Lock waits longer than the lock
// timeout surface as domain.ErrContention.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			return wrapErr("set lock_timeout", err)
		}
	}

	if err := fn(ctx, stores{db: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit", err)
	}
	return nil
}

// stores binds every store to one DBTX.
type stores struct {
	db   DBTX
	inTx bool
}

func (s stores) Auctions() domain.AuctionStore    { return &AuctionStore{db: s.db, inTx: s.inTx} }
func (s stores) Bids() domain.BidStore            { return &BidStore{db: s.db} }
func (s stores) Proxies() domain.ProxyStore       { return &ProxyStore{db: s.db} }
func (s stores) Orders() domain.OrderStore        { return &OrderStore{db: s.db, inTx: s.inTx} }
func (s stores) Blacklist() domain.BlacklistStore { return &BlacklistStore{db: s.db} }
func (s stores) Ratings() domain.RatingStore      { return &RatingStore{db: s.db} }
func (s stores) Settings() domain.SettingStore    { return &SettingStore{db: s.db} }
func (s stores) Audit() domain.AuditStore         { return &AuditStore{db: s.db} }

// SQLSTATE codes mapped onto domain errors.
const (
	codeLockNotAvailable = "55P03"
	codeUniqueViolation  = "23505"
)

// wrapErr prefixes err with the operation and maps driver errors to domain
// sentinels.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable:
			return fmt.Errorf("postgres: %s: %w: %s", op, domain.ErrContention, pgErr.Message)
		case codeUniqueViolation:
			return fmt.Errorf("postgres: %s: %w: %s", op, domain.ErrAlreadyExists, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("postgres: %s: %w", op, domain.ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("postgres: %s: %w: %v", op, domain.ErrContention, err)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}

var _ domain.Repository = (*Repository)(nil)

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const auctionColumns = `
	id, seller_id, title, start_price, price_step, current_price,
	current_bidder_id, bid_count, buy_now_price, auto_extend, proxy_enabled,
	allow_unrated_bidders, start_at, end_at, status, archived_at,
	created_at, updated_at`

// AuctionStore implements domain.AuctionStore using PostgreSQL.
type AuctionStore struct {
	db   DBTX
	inTx bool
}

func scanAuction(row scanner) (domain.Auction, error) {
	var a domain.Auction
	var status string
	err := row.Scan(
		&a.ID, &a.SellerID, &a.Title, &a.StartPrice, &a.PriceStep, &a.CurrentPrice,
		&a.CurrentBidderID, &a.BidCount, &a.BuyNowPrice, &a.AutoExtend, &a.ProxyEnabled,
		&a.AllowUnratedBidders, &a.StartAt, &a.EndAt, &status, &a.ArchivedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	a.Status = domain.AuctionStatus(status)
	return a, err
}

// Create inserts a new auction. CurrentPrice defaults to the start price.
func (s *AuctionStore) Create(ctx context.Context, a domain.Auction) (domain.Auction, error) {
	if a.CurrentPrice == 0 {
		a.CurrentPrice = a.StartPrice
	}
	if a.Status == "" {
		a.Status = domain.AuctionStatusActive
	}

	query := `
		INSERT INTO auctions (
			seller_id, title, start_price, price_step, current_price,
			buy_now_price, auto_extend, proxy_enabled, allow_unrated_bidders,
			start_at, end_at, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING` + auctionColumns

	out, err := scanAuction(s.db.QueryRow(ctx, query,
		a.SellerID, a.Title, a.StartPrice, a.PriceStep, a.CurrentPrice,
		a.BuyNowPrice, a.AutoExtend, a.ProxyEnabled, a.AllowUnratedBidders,
		a.StartAt, a.EndAt, string(a.Status),
	))
	if err != nil {
		return domain.Auction{}, wrapErr("create auction", err)
	}
	return out, nil
}

// Get reads an auction without locking it.
func (s *AuctionStore) Get(ctx context.Context, id int64) (domain.Auction, error) {
	query := `SELECT` + auctionColumns + ` FROM auctions WHERE id = $1`
	a, err := scanAuction(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Auction{}, wrapErr(fmt.Sprintf("get auction %d", id), err)
	}
	return a, nil
}

// LockForUpdate reads the auction with SELECT ... FOR UPDATE.
func (s *AuctionStore) LockForUpdate(ctx context.Context, id int64) (domain.Auction, error) {
	if !s.inTx {
		return domain.Auction{}, domain.ErrNotInTx
	}
	query := `SELECT` + auctionColumns + ` FROM auctions WHERE id = $1 FOR UPDATE`
	a, err := scanAuction(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Auction{}, wrapErr(fmt.Sprintf("lock auction %d", id), err)
	}
	return a, nil
}

// ClaimDue locks the earliest-ending due auction not held by another
// transaction.
func (s *AuctionStore) ClaimDue(ctx context.Context, now time.Time, exclude []int64) (domain.Auction, error) {
	if !s.inTx {
		return domain.Auction{}, domain.ErrNotInTx
	}
	if exclude == nil {
		exclude = []int64{}
	}
	query := `SELECT` + auctionColumns + `
		FROM auctions
		WHERE status = 'ACTIVE' AND end_at <= $1 AND NOT (id = ANY($2))
		ORDER BY end_at, id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	a, err := scanAuction(s.db.QueryRow(ctx, query, now, exclude))
	if err != nil {
		return domain.Auction{}, wrapErr("claim due auction", err)
	}
	return a, nil
}

// ApplyPriceUpdate sets the leader and price and bumps bid_count.
func (s *AuctionStore) ApplyPriceUpdate(ctx context.Context, id, price, bidderID int64) (domain.Auction, error) {
	query := `
		UPDATE auctions
		SET current_price = $2, current_bidder_id = $3,
		    bid_count = bid_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING` + auctionColumns

	a, err := scanAuction(s.db.QueryRow(ctx, query, id, price, bidderID))
	if err != nil {
		return domain.Auction{}, wrapErr(fmt.Sprintf("apply price to auction %d", id), err)
	}
	return a, nil
}

// ResetLeader overwrites leader state after ledger rows were removed.
func (s *AuctionStore) ResetLeader(ctx context.Context, id, price int64, bidderID *int64, bidCount int) (domain.Auction, error) {
	query := `
		UPDATE auctions
		SET current_price = $2, current_bidder_id = $3, bid_count = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING` + auctionColumns

	a, err := scanAuction(s.db.QueryRow(ctx, query, id, price, bidderID, bidCount))
	if err != nil {
		return domain.Auction{}, wrapErr(fmt.Sprintf("reset leader of auction %d", id), err)
	}
	return a, nil
}

// UpdateEndAt moves the auction's end time.
func (s *AuctionStore) UpdateEndAt(ctx context.Context, id int64, endAt time.Time) error {
	const query = `UPDATE auctions SET end_at = $2, updated_at = NOW() WHERE id = $1`
	return s.exec(ctx, fmt.Sprintf("update end of auction %d", id), query, id, endAt)
}

// SetStatus changes the lifecycle status.
func (s *AuctionStore) SetStatus(ctx context.Context, id int64, status domain.AuctionStatus) error {
	const query = `UPDATE auctions SET status = $2, updated_at = NOW() WHERE id = $1`
	return s.exec(ctx, fmt.Sprintf("set status of auction %d", id), query, id, string(status))
}

// ListArchivable returns ended, unarchived auctions that ended before the
// cutoff, oldest first.
func (s *AuctionStore) ListArchivable(ctx context.Context, endedBefore time.Time, limit int) ([]domain.Auction, error) {
	query := `SELECT` + auctionColumns + `
		FROM auctions
		WHERE status = 'ENDED' AND archived_at IS NULL AND end_at < $1
		ORDER BY end_at
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, endedBefore, limit)
	if err != nil {
		return nil, wrapErr("list archivable auctions", err)
	}
	defer rows.Close()

	var out []domain.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, wrapErr("scan archivable auction", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list archivable auctions rows", err)
	}
	return out, nil
}

// MarkArchived stamps archived_at.
func (s *AuctionStore) MarkArchived(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE auctions SET archived_at = $2 WHERE id = $1`
	return s.exec(ctx, fmt.Sprintf("mark auction %d archived", id), query, id, at)
}

func (s *AuctionStore) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: %s: %w", op, domain.ErrNotFound)
	}
	return nil
}

var _ domain.AuctionStore = (*AuctionStore)(nil)

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const bidColumns = `id, auction_id, bidder_id, amount, is_proxy, created_at`

// BidStore implements domain.BidStore using PostgreSQL.
type BidStore struct {
	db DBTX
}

func scanBid(row scanner) (domain.Bid, error) {
	var b domain.Bid
	err := row.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.IsProxy, &b.CreatedAt)
	return b, err
}

func collectBids(rows pgx.Rows, op string) ([]domain.Bid, error) {
	defer rows.Close()
	var out []domain.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, wrapErr("scan "+op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op+" rows", err)
	}
	return out, nil
}

// nullTime turns a zero time into SQL NULL so the column default applies.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Insert appends a bid. A zero CreatedAt is stamped with clock_timestamp()
// so bids in one transaction keep their placement order.
func (s *BidStore) Insert(ctx context.Context, b domain.Bid) (domain.Bid, error) {
	const query = `
		INSERT INTO bids (auction_id, bidder_id, amount, is_proxy, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, clock_timestamp()))
		RETURNING ` + bidColumns

	out, err := scanBid(s.db.QueryRow(ctx, query,
		b.AuctionID, b.BidderID, b.Amount, b.IsProxy, nullTime(b.CreatedAt),
	))
	if err != nil {
		return domain.Bid{}, wrapErr(fmt.Sprintf("insert bid on auction %d", b.AuctionID), err)
	}
	return out, nil
}

// ListByAuction returns bids by amount desc, newest first. limit <= 0
// returns all.
func (s *BidStore) ListByAuction(ctx context.Context, auctionID int64, limit int) ([]domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at DESC, id DESC`
	args := []any{auctionID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list bids", err)
	}
	return collectBids(rows, "list bids")
}

// ListChronological returns every bid of the auction in placement order.
func (s *BidStore) ListChronological(ctx context.Context, auctionID int64) ([]domain.Bid, error) {
	const query = `SELECT ` + bidColumns + ` FROM bids
		WHERE auction_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, auctionID)
	if err != nil {
		return nil, wrapErr("list bids chronologically", err)
	}
	return collectBids(rows, "list bids chronologically")
}

// Top returns the highest bid, newest first on ties.
func (s *BidStore) Top(ctx context.Context, auctionID int64) (domain.Bid, error) {
	const query = `SELECT ` + bidColumns + ` FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at DESC, id DESC
		LIMIT 1`

	b, err := scanBid(s.db.QueryRow(ctx, query, auctionID))
	if err != nil {
		return domain.Bid{}, wrapErr(fmt.Sprintf("top bid of auction %d", auctionID), err)
	}
	return b, nil
}

// Count returns the number of bids on the auction.
func (s *BidStore) Count(ctx context.Context, auctionID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM bids WHERE auction_id = $1`, auctionID).Scan(&n); err != nil {
		return 0, wrapErr("count bids", err)
	}
	return n, nil
}

// DeleteByBidder removes a bidder's bids from one auction.
func (s *BidStore) DeleteByBidder(ctx context.Context, auctionID, bidderID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM bids WHERE auction_id = $1 AND bidder_id = $2`, auctionID, bidderID)
	if err != nil {
		return 0, wrapErr("delete bidder bids", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteProxyAbove removes the bidder's system bids priced above amount.
func (s *BidStore) DeleteProxyAbove(ctx context.Context, auctionID, bidderID, amount int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM bids
		WHERE auction_id = $1 AND bidder_id = $2 AND is_proxy AND amount > $3`,
		auctionID, bidderID, amount)
	if err != nil {
		return 0, wrapErr("delete stale proxy bids", err)
	}
	return tag.RowsAffected(), nil
}

var _ domain.BidStore = (*BidStore)(nil)

package postgres

import (
	"context"
	"fmt"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const proxyColumns = `id, auction_id, bidder_id, max_amount, created_at, updated_at`

// ProxyStore implements domain.ProxyStore using PostgreSQL.
type ProxyStore struct {
	db DBTX
}

func scanProxy(row scanner) (domain.ProxyCommitment, error) {
	var c domain.ProxyCommitment
	err := row.Scan(&c.ID, &c.AuctionID, &c.BidderID, &c.MaxAmount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Upsert inserts the commitment or replaces the ceiling of the existing one.
// created_at is left untouched on conflict.
func (s *ProxyStore) Upsert(ctx context.Context, c domain.ProxyCommitment) (domain.ProxyCommitment, error) {
	const query = `
		INSERT INTO proxy_bids (auction_id, bidder_id, max_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (auction_id, bidder_id)
		DO UPDATE SET max_amount = EXCLUDED.max_amount, updated_at = NOW()
		RETURNING ` + proxyColumns

	out, err := scanProxy(s.db.QueryRow(ctx, query, c.AuctionID, c.BidderID, c.MaxAmount))
	if err != nil {
		return domain.ProxyCommitment{}, wrapErr(fmt.Sprintf("upsert proxy bid on auction %d", c.AuctionID), err)
	}
	return out, nil
}

// ListByAuction returns commitments by ceiling desc, oldest first.
func (s *ProxyStore) ListByAuction(ctx context.Context, auctionID int64) ([]domain.ProxyCommitment, error) {
	const query = `SELECT ` + proxyColumns + ` FROM proxy_bids
		WHERE auction_id = $1
		ORDER BY max_amount DESC, created_at ASC, id ASC`

	rows, err := s.db.Query(ctx, query, auctionID)
	if err != nil {
		return nil, wrapErr("list proxy bids", err)
	}
	defer rows.Close()

	var out []domain.ProxyCommitment
	for rows.Next() {
		c, err := scanProxy(rows)
		if err != nil {
			return nil, wrapErr("scan proxy bid", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list proxy bids rows", err)
	}
	return out, nil
}

// DeleteByAuction clears the registry for an auction.
func (s *ProxyStore) DeleteByAuction(ctx context.Context, auctionID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM proxy_bids WHERE auction_id = $1`, auctionID)
	if err != nil {
		return 0, wrapErr("delete proxy bids", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByBidder removes one bidder's commitment.
func (s *ProxyStore) DeleteByBidder(ctx context.Context, auctionID, bidderID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM proxy_bids WHERE auction_id = $1 AND bidder_id = $2`, auctionID, bidderID)
	if err != nil {
		return wrapErr("delete bidder proxy bid", err)
	}
	return nil
}

var _ domain.ProxyStore = (*ProxyStore)(nil)

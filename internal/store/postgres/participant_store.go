package postgres

import (
	"context"
	"fmt"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

// BlacklistStore implements domain.BlacklistStore using PostgreSQL.
type BlacklistStore struct {
	db DBTX
}

// Add denies the bidder on the auction; re-adding updates the reason.
func (s *BlacklistStore) Add(ctx context.Context, e domain.BlacklistEntry) error {
	const query = `
		INSERT INTO bid_blacklist (auction_id, bidder_id, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (auction_id, bidder_id) DO UPDATE SET reason = EXCLUDED.reason`

	if _, err := s.db.Exec(ctx, query, e.AuctionID, e.BidderID, e.Reason); err != nil {
		return wrapErr(fmt.Sprintf("blacklist bidder %d on auction %d", e.BidderID, e.AuctionID), err)
	}
	return nil
}

// Contains reports whether the bidder is denied on the auction.
func (s *BlacklistStore) Contains(ctx context.Context, auctionID, bidderID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM bid_blacklist WHERE auction_id = $1 AND bidder_id = $2)`
	var ok bool
	if err := s.db.QueryRow(ctx, query, auctionID, bidderID).Scan(&ok); err != nil {
		return false, wrapErr("check blacklist", err)
	}
	return ok, nil
}

// RatingStore implements domain.RatingStore using PostgreSQL.
type RatingStore struct {
	db DBTX
}

// Upsert stores the rating; one row per (order, rater).
func (s *RatingStore) Upsert(ctx context.Context, r domain.Rating) error {
	const query = `
		INSERT INTO ratings (order_id, rater_id, rated_user_id, score, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id, rater_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = NOW()`

	if _, err := s.db.Exec(ctx, query, r.OrderID, r.RaterID, r.RatedUserID, r.Score, r.Comment); err != nil {
		return wrapErr(fmt.Sprintf("upsert rating for order %d", r.OrderID), err)
	}
	return nil
}

// Summary counts the positive and negative ratings a user received.
func (s *RatingStore) Summary(ctx context.Context, userID int64) (domain.RatingSummary, error) {
	const query = `
		SELECT COUNT(*) FILTER (WHERE score > 0), COUNT(*) FILTER (WHERE score < 0)
		FROM ratings WHERE rated_user_id = $1`

	var sum domain.RatingSummary
	if err := s.db.QueryRow(ctx, query, userID).Scan(&sum.Positive, &sum.Negative); err != nil {
		return domain.RatingSummary{}, wrapErr(fmt.Sprintf("rating summary for user %d", userID), err)
	}
	return sum, nil
}

// SettingStore implements domain.SettingStore using PostgreSQL.
type SettingStore struct {
	db DBTX
}

// Get returns the values of the requested keys that exist.
func (s *SettingStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT key, value FROM settings WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, wrapErr("get settings", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, wrapErr("scan setting", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get settings rows", err)
	}
	return out, nil
}

var (
	_ domain.BlacklistStore = (*BlacklistStore)(nil)
	_ domain.RatingStore    = (*RatingStore)(nil)
	_ domain.SettingStore   = (*SettingStore)(nil)
)

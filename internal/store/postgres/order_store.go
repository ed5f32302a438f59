package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const orderColumns = `
	id, auction_id, seller_id, winner_id, final_price, status,
	shipping_address, buyer_invoice_note, shipping_code,
	invoice_submitted_at, payment_confirmed_at, buyer_received_at,
	cancelled_at, cancel_reason, created_at, updated_at`

// OrderStore implements domain.OrderStore using PostgreSQL.
type OrderStore struct {
	db   DBTX
	inTx bool
}

func scanOrder(row scanner) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID, &o.AuctionID, &o.SellerID, &o.WinnerID, &o.FinalPrice, &status,
		&o.ShippingAddress, &o.BuyerInvoiceNote, &o.ShippingCode,
		&o.InvoiceSubmittedAt, &o.PaymentConfirmedAt, &o.BuyerReceivedAt,
		&o.CancelledAt, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = domain.OrderStatus(status)
	return o, err
}

// CreateOnce inserts the order with ON CONFLICT (auction_id) DO NOTHING. When
// another transaction already created it, the existing row is returned with
// created=false.
func (s *OrderStore) CreateOnce(ctx context.Context, o domain.Order) (domain.Order, bool, error) {
	const query = `
		INSERT INTO orders (auction_id, seller_id, winner_id, final_price, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (auction_id) DO NOTHING
		RETURNING` + orderColumns

	out, err := scanOrder(s.db.QueryRow(ctx, query,
		o.AuctionID, o.SellerID, o.WinnerID, o.FinalPrice, string(o.Status),
	))
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, false, wrapErr(fmt.Sprintf("create order for auction %d", o.AuctionID), err)
	}

	existing, err := s.GetByAuction(ctx, o.AuctionID)
	if err != nil {
		return domain.Order{}, false, err
	}
	return existing, false, nil
}

// GetByID returns one order.
func (s *OrderStore) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	const query = `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Order{}, wrapErr(fmt.Sprintf("get order %d", id), err)
	}
	return o, nil
}

// GetForUpdate reads the order with SELECT ... FOR UPDATE.
func (s *OrderStore) GetForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	if !s.inTx {
		return domain.Order{}, domain.ErrNotInTx
	}
	const query = `SELECT` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Order{}, wrapErr(fmt.Sprintf("lock order %d", id), err)
	}
	return o, nil
}

// GetByAuction returns the order created for an auction.
func (s *OrderStore) GetByAuction(ctx context.Context, auctionID int64) (domain.Order, error) {
	const query = `SELECT` + orderColumns + ` FROM orders WHERE auction_id = $1`
	o, err := scanOrder(s.db.QueryRow(ctx, query, auctionID))
	if err != nil {
		return domain.Order{}, wrapErr(fmt.Sprintf("get order for auction %d", auctionID), err)
	}
	return o, nil
}

// ListForUser returns orders where the user is seller or winner, newest first.
func (s *OrderStore) ListForUser(ctx context.Context, userID int64, opts domain.ListOpts) ([]domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM orders
		WHERE seller_id = $1 OR winner_id = $1
		ORDER BY id DESC`
	args := []any{userID}
	argIdx := 2

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapErr("scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list orders rows", err)
	}
	return out, nil
}

// Update writes every mutable column of the order.
func (s *OrderStore) Update(ctx context.Context, o domain.Order) error {
	const query = `
		UPDATE orders SET
			status = $2, shipping_address = $3, buyer_invoice_note = $4,
			shipping_code = $5, invoice_submitted_at = $6,
			payment_confirmed_at = $7, buyer_received_at = $8,
			cancelled_at = $9, cancel_reason = $10, updated_at = NOW()
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query,
		o.ID, string(o.Status), o.ShippingAddress, o.BuyerInvoiceNote,
		o.ShippingCode, o.InvoiceSubmittedAt,
		o.PaymentConfirmedAt, o.BuyerReceivedAt,
		o.CancelledAt, o.CancelReason,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("update order %d", o.ID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: update order %d: %w", o.ID, domain.ErrNotFound)
	}
	return nil
}

var _ domain.OrderStore = (*OrderStore)(nil)

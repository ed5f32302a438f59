package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
)

const (
	jsonlContentType = "application/x-ndjson"

	// defaultArchiveBatch is how many auctions one ListArchivable call returns.
	defaultArchiveBatch = 100
)

// ArchiveStores is the slice of the repository the archiver reads and marks.
type ArchiveStores interface {
	Auctions() domain.AuctionStore
	Bids() domain.BidStore
	Audit() domain.AuditStore
}

// ArchiverConfig tunes upload behaviour.
type ArchiverConfig struct {
	// MultipartThreshold is the payload size from which PutMultipart is used.
	MultipartThreshold int64
	PartSize           int64
	Batch              int
}

// BidArchiver implements domain.BidArchiver. Each ended auction's ledger is
// written in placement order as JSONL to
// archive/bids/<yyyy-mm of end>/<auction id>.jsonl, then the auction is
// stamped archived. Ledger rows stay in the database.
type BidArchiver struct {
	writer domain.BlobWriter
	stores ArchiveStores
	cfg    ArchiverConfig
	now    func() time.Time
	logger *slog.Logger
}

// NewBidArchiver creates a BidArchiver.
func NewBidArchiver(writer domain.BlobWriter, stores ArchiveStores, cfg ArchiverConfig, logger *slog.Logger) *BidArchiver {
	if cfg.Batch <= 0 {
		cfg.Batch = defaultArchiveBatch
	}
	if cfg.MultipartThreshold <= 0 {
		cfg.MultipartThreshold = 4 * MinPartSize
	}
	return &BidArchiver{
		writer: writer,
		stores: stores,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With(slog.String("component", "bid_archiver")),
	}
}

// archivedBid is the JSONL line format.
type archivedBid struct {
	BidID     int64     `json:"bid_id"`
	AuctionID int64     `json:"auction_id"`
	BidderID  int64     `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	IsProxy   bool      `json:"is_proxy"`
	CreatedAt time.Time `json:"created_at"`
}

// ArchiveBids archives every ended auction whose end is before endedBefore
// and returns how many auctions were archived. It stops at the first failure;
// auctions archived so far stay marked.
func (a *BidArchiver) ArchiveBids(ctx context.Context, endedBefore time.Time) (int64, error) {
	var archived int64
	for {
		auctions, err := a.stores.Auctions().ListArchivable(ctx, endedBefore, a.cfg.Batch)
		if err != nil {
			return archived, fmt.Errorf("s3blob: list archivable auctions: %w", err)
		}
		if len(auctions) == 0 {
			return archived, nil
		}
		for _, auc := range auctions {
			if err := a.archiveOne(ctx, auc); err != nil {
				return archived, err
			}
			archived++
		}
	}
}

func (a *BidArchiver) archiveOne(ctx context.Context, auc domain.Auction) error {
	bids, err := a.stores.Bids().ListChronological(ctx, auc.ID)
	if err != nil {
		return fmt.Errorf("s3blob: archive auction %d query: %w", auc.ID, err)
	}

	lines := make([]archivedBid, len(bids))
	for i, b := range bids {
		lines[i] = archivedBid{
			BidID:     b.ID,
			AuctionID: b.AuctionID,
			BidderID:  b.BidderID,
			Amount:    b.Amount,
			IsProxy:   b.IsProxy,
			CreatedAt: b.CreatedAt.UTC(),
		}
	}
	buf, err := marshalJSONL(lines)
	if err != nil {
		return fmt.Errorf("s3blob: archive auction %d marshal: %w", auc.ID, err)
	}

	path := BidArchivePath(auc)
	if int64(len(buf)) >= a.cfg.MultipartThreshold {
		err = a.writer.PutMultipart(ctx, path, bytes.NewReader(buf), a.cfg.PartSize)
	} else {
		err = a.writer.Put(ctx, path, bytes.NewReader(buf), jsonlContentType)
	}
	if err != nil {
		return fmt.Errorf("s3blob: archive auction %d upload: %w", auc.ID, err)
	}

	if err := a.stores.Auctions().MarkArchived(ctx, auc.ID, a.now().UTC()); err != nil {
		return fmt.Errorf("s3blob: archive auction %d mark: %w", auc.ID, err)
	}
	if err := a.stores.Audit().Log(ctx, "archive.bids", map[string]any{
		"auction_id": auc.ID,
		"path":       path,
		"count":      len(bids),
	}); err != nil {
		a.logger.WarnContext(ctx, "s3blob: audit log failed",
			slog.Int64("auction_id", auc.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// BidArchivePath builds the object key for an auction's ledger, partitioned
// by the year-month the auction ended.
//
//	archive/bids/2026-01/42.jsonl
func BidArchivePath(a domain.Auction) string {
	return fmt.Sprintf("archive/bids/%s/%d.jsonl", a.EndAt.UTC().Format("2006-01"), a.ID)
}

// marshalJSONL encodes each item as one JSON line.
func marshalJSONL[T any](items []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

var _ domain.BidArchiver = (*BidArchiver)(nil)

package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// BidArchiver copies finished auctions' bid ledgers to cold storage.
type BidArchiver interface {
	ArchiveBids(ctx context.Context, endedBefore time.Time) (int64, error)
}

// Package storage defines the receipt repository contract. The canonical
// collection lives behind Store; everything else in the application works
// on read-only snapshots it hands out.
package storage

import (
	"context"

	"toya/internal/core"
)

// TotalsSnapshot carries the store-level aggregates the dashboard headline
// is built from.
type TotalsSnapshot struct {
	CollectedCents int64
	ReceiptCount   int
	StudentCount   int // distinct admission numbers
}

// Store is the receipt repository plus the flat settings store.
//
// Reference-id uniqueness is enforced by the storage layer itself (unique
// constraint), not by a look-before-insert check, so concurrent inserts of
// the same reference cannot race.
type Store interface {
	// InsertReceipt adds a record. It returns core.ErrDuplicateReference
	// when the reference id is already present.
	InsertReceipt(ctx context.Context, r core.Receipt) error

	// DeleteReceipt removes the matching record. Deleting an absent
	// reference is a no-op, not an error, so retried deletes stay
	// idempotent; the bool reports whether a record was removed.
	DeleteReceipt(ctx context.Context, referenceID string) (bool, error)

	// GetReceipt returns the record or core.ErrNotFound.
	GetReceipt(ctx context.Context, referenceID string) (core.Receipt, error)

	// QueryReceipts returns the requested 1-indexed page of matches,
	// most-recent-first by date, plus the total match count. Page bounds
	// are not checked here; callers clamp.
	QueryReceipts(ctx context.Context, f core.ReceiptFilter, page, pageSize int) ([]core.Receipt, int, error)

	// AllReceipts returns the full collection, most-recent-first by date.
	AllReceipts(ctx context.Context) ([]core.Receipt, error)

	// Totals returns sum/count/distinct aggregates over the collection.
	Totals(ctx context.Context) (TotalsSnapshot, error)

	// LoadSettings returns the persisted key/value pairs; an empty map on
	// a fresh store.
	LoadSettings(ctx context.Context) (map[string]string, error)

	// SaveSettings replaces the stored values for the given keys.
	SaveSettings(ctx context.Context, pairs map[string]string) error

	Close() error
}

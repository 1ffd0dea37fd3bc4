// Package services orchestrates receipt operations across the store and
// the optional AMQP event stream.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"toya/internal/amqp"
	"toya/internal/core"
	"toya/internal/storage"
)

// DefaultPageSize matches the register's page length.
const DefaultPageSize = 5

// ReceiptService is the application-facing API over the receipt store.
type ReceiptService struct {
	store      storage.Store
	amqpClient *amqp.Client
}

func NewReceiptService(store storage.Store, amqpClient *amqp.Client) *ReceiptService {
	return &ReceiptService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// NewReceiptInput is the entry form. Zero-value optional fields get the
// register's defaults on the way in.
type NewReceiptInput struct {
	StudentName     string
	AdmissionNumber string
	ClassGrade      string
	PayerName       string
	Amount          core.Money
	PaymentMethod   string
	ReferenceID     string
	Date            string
	Notes           string
}

// Create validates and stores a new receipt, then publishes a created
// event. A publish failure is logged, not surfaced: the receipt is already
// durable locally.
func (s *ReceiptService) Create(ctx context.Context, in NewReceiptInput) (core.Receipt, error) {
	r := core.Receipt{
		StudentName:     strings.TrimSpace(in.StudentName),
		AdmissionNumber: strings.TrimSpace(in.AdmissionNumber),
		ClassGrade:      strings.TrimSpace(in.ClassGrade),
		PayerName:       strings.TrimSpace(in.PayerName),
		Amount:          in.Amount,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		ReferenceID:     strings.TrimSpace(in.ReferenceID),
		Date:            strings.TrimSpace(in.Date),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = core.MethodCash
	}
	if r.Date == "" {
		r.Date = core.Today()
	}
	if r.ReferenceID == "" {
		r.ReferenceID = GenerateReferenceID()
	}

	if err := r.Validate(); err != nil {
		return core.Receipt{}, err
	}

	if err := s.store.InsertReceipt(ctx, r); err != nil {
		if errors.Is(err, core.ErrDuplicateReference) {
			return core.Receipt{}, core.ErrDuplicateReference
		}
		return core.Receipt{}, fmt.Errorf("save receipt: %w", err)
	}

	s.publishEvent(ctx, amqp.EventReceiptCreated, r.ReferenceID, r.Amount.Cents)
	return r, nil
}

// Delete removes a receipt by reference. Deleting an absent reference is a
// no-op; the bool reports whether anything was removed.
func (s *ReceiptService) Delete(ctx context.Context, referenceID string) (bool, error) {
	deleted, err := s.store.DeleteReceipt(ctx, referenceID)
	if err != nil {
		return false, fmt.Errorf("delete receipt: %w", err)
	}
	if deleted {
		s.publishEvent(ctx, amqp.EventReceiptDeleted, referenceID, 0)
	}
	return deleted, nil
}

func (s *ReceiptService) Get(ctx context.Context, referenceID string) (core.Receipt, error) {
	return s.store.GetReceipt(ctx, referenceID)
}

// QueryPage is one page of filtered results plus the figures pagination
// controls need.
type QueryPage struct {
	Receipts   []core.Receipt
	Total      int
	Page       int
	TotalPages int
}

// Query returns the requested page of filtered receipts. Page numbers are
// clamped to [1, totalPages] so stale pagination state never errors.
func (s *ReceiptService) Query(ctx context.Context, f core.ReceiptFilter, page, pageSize int) (QueryPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	receipts, total, err := s.store.QueryReceipts(ctx, f, page, pageSize)
	if err != nil {
		return QueryPage{}, fmt.Errorf("query receipts: %w", err)
	}

	totalPages := core.TotalPages(total, pageSize)
	if page > totalPages {
		page = totalPages
		receipts, _, err = s.store.QueryReceipts(ctx, f, page, pageSize)
		if err != nil {
			return QueryPage{}, fmt.Errorf("query receipts: %w", err)
		}
	}

	return QueryPage{
		Receipts:   receipts,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *ReceiptService) All(ctx context.Context) ([]core.Receipt, error) {
	return s.store.AllReceipts(ctx)
}

func (s *ReceiptService) Totals(ctx context.Context) (storage.TotalsSnapshot, error) {
	return s.store.Totals(ctx)
}

func (s *ReceiptService) publishEvent(ctx context.Context, kind, referenceID string, amountCents int64) {
	if s.amqpClient == nil {
		return
	}
	event := amqp.NewReceiptEvent(kind, referenceID, amountCents)
	if err := s.amqpClient.PublishReceiptEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish receipt event",
			"kind", kind, "reference_id", referenceID, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *ReceiptService) Close() error {
	var errs []error
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close AMQP client: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// GenerateReferenceID returns "REF" plus six random digits. Collisions are
// possible and land on the store's unique constraint, which surfaces them
// as ErrDuplicateReference.
func GenerateReferenceID() string {
	return fmt.Sprintf("REF%06d", rand.IntN(900000)+100000)
}

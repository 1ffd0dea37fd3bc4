package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"toya/internal/core"
	"toya/internal/storage/memory"
)

func newTestService() *ReceiptService {
	return NewReceiptService(memory.New(), nil)
}

func TestCreateAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	r, err := svc.Create(ctx, NewReceiptInput{
		StudentName:     "  Jane Doe  ",
		AdmissionNumber: "ADM001",
		Amount:          core.Money{Cents: 5000},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if r.StudentName != "Jane Doe" {
		t.Errorf("StudentName = %q, want trimmed", r.StudentName)
	}
	if r.PaymentMethod != core.MethodCash {
		t.Errorf("PaymentMethod = %q, want default Cash", r.PaymentMethod)
	}
	if r.Date == "" {
		t.Error("Date not defaulted")
	}
	if !strings.HasPrefix(r.ReferenceID, "REF") || len(r.ReferenceID) != 9 {
		t.Errorf("ReferenceID = %q, want REF plus six digits", r.ReferenceID)
	}
	if r.CreatedAt == "" {
		t.Error("CreatedAt not stamped")
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	cases := []struct {
		name string
		in   NewReceiptInput
		want error
	}{
		{
			name: "missing student name",
			in:   NewReceiptInput{AdmissionNumber: "ADM001", Amount: core.Money{Cents: 5000}},
			want: core.ErrMissingStudentName,
		},
		{
			name: "missing admission number",
			in:   NewReceiptInput{StudentName: "Jane", Amount: core.Money{Cents: 5000}},
			want: core.ErrMissingAdmissionNumber,
		},
		{
			name: "zero amount",
			in:   NewReceiptInput{StudentName: "Jane", AdmissionNumber: "ADM001"},
			want: core.ErrInvalidAmount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			if !core.IsValidation(err) {
				t.Errorf("%v not classified as validation", err)
			}
		})
	}
}

func TestCreateDuplicateReference(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	in := NewReceiptInput{
		StudentName:     "Jane Doe",
		AdmissionNumber: "ADM001",
		Amount:          core.Money{Cents: 5000},
		ReferenceID:     "REF100001",
	}
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(ctx, in)
	if !errors.Is(err, core.ErrDuplicateReference) {
		t.Fatalf("err = %v, want ErrDuplicateReference", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	r, err := svc.Create(ctx, NewReceiptInput{
		StudentName:     "Jane Doe",
		AdmissionNumber: "ADM001",
		Amount:          core.Money{Cents: 5000},
	})
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := svc.Delete(ctx, r.ReferenceID)
	if err != nil || !deleted {
		t.Fatalf("first delete = (%v, %v)", deleted, err)
	}
	deleted, err = svc.Delete(ctx, r.ReferenceID)
	if err != nil || deleted {
		t.Fatalf("second delete = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestQueryClampsPage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	for i := 1; i <= 7; i++ {
		_, err := svc.Create(ctx, NewReceiptInput{
			StudentName:     fmt.Sprintf("Student %d", i),
			AdmissionNumber: fmt.Sprintf("ADM%03d", i),
			Amount:          core.Money{Cents: 1000},
			Date:            fmt.Sprintf("2024-01-%02d", i),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	// Past the end: clamps to the last page rather than returning nothing.
	page, err := svc.Query(ctx, core.ReceiptFilter{}, 99, 5)
	if err != nil {
		t.Fatal(err)
	}
	if page.Page != 2 || page.TotalPages != 2 {
		t.Errorf("page = %d of %d, want 2 of 2", page.Page, page.TotalPages)
	}
	if len(page.Receipts) != 2 {
		t.Errorf("last page has %d rows, want 2", len(page.Receipts))
	}

	// Below one: clamps to the first page.
	page, err = svc.Query(ctx, core.ReceiptFilter{}, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || len(page.Receipts) != 5 {
		t.Errorf("page = %d with %d rows, want page 1 with 5", page.Page, len(page.Receipts))
	}
}

func TestQueryEmptyCollection(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	page, err := svc.Query(ctx, core.ReceiptFilter{}, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 || page.TotalPages != 1 || page.Page != 1 {
		t.Errorf("empty query = %+v, want total 0 on page 1 of 1", page)
	}
}

func TestGenerateReferenceID(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := GenerateReferenceID()
		if !strings.HasPrefix(ref, "REF") || len(ref) != 9 {
			t.Fatalf("GenerateReferenceID() = %q", ref)
		}
		for _, c := range ref[3:] {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in %q", ref)
			}
		}
	}
}

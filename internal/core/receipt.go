package core

import (
	"errors"
	"strings"
)

// Payment methods are an open set; these are the values the entry form offers.
const (
	MethodCash         = "Cash"
	MethodBankTransfer = "Bank Transfer"
	MethodMobileMoney  = "Mobile Money"
	MethodCheck        = "Check"
)

// Receipt is one recorded fee payment, identified by its reference id.
// Receipts are never updated in place: they are inserted once and either
// kept or deleted by reference.
type Receipt struct {
	StudentName     string `json:"student_name"`
	AdmissionNumber string `json:"admission_number"`
	ClassGrade      string `json:"class_grade"`
	PayerName       string `json:"payer_name"`
	Amount          Money  `json:"amount"`
	PaymentMethod   string `json:"payment_method"`
	ReferenceID     string `json:"reference_id"`
	Date            string `json:"date"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"created_at"`
}

var (
	ErrDuplicateReference = errors.New("reference id already exists")
	ErrNotFound           = errors.New("receipt not found")

	ErrMissingStudentName     = errors.New("student name is required")
	ErrMissingAdmissionNumber = errors.New("admission number is required")
	ErrMissingReferenceID     = errors.New("reference id is required")
	ErrMissingDate            = errors.New("date is required")
)

// IsValidation reports whether err belongs to the validation taxonomy:
// a rejected field on the way in, as opposed to a storage or lookup failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingStudentName) ||
		errors.Is(err, ErrMissingAdmissionNumber) ||
		errors.Is(err, ErrMissingReferenceID) ||
		errors.Is(err, ErrMissingDate)
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.StudentName) == "" {
		return ErrMissingStudentName
	}
	if strings.TrimSpace(r.AdmissionNumber) == "" {
		return ErrMissingAdmissionNumber
	}
	if strings.TrimSpace(r.ReferenceID) == "" {
		return ErrMissingReferenceID
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrMissingDate
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// ReceiptFilter is a conjunction of optional predicates over the collection.
// Zero values mean "no restriction".
type ReceiptFilter struct {
	// Search matches case-insensitively as a substring of the student name,
	// admission number or reference id.
	Search string
	// ClassGrade matches exactly.
	ClassGrade string
	// DateFrom and DateTo bound the receipt date inclusively, compared on
	// the calendar day (YYYY-MM-DD) and ignoring any time-of-day component.
	DateFrom string
	DateTo   string
}

func (f ReceiptFilter) IsZero() bool {
	return f.Search == "" && f.ClassGrade == "" && f.DateFrom == "" && f.DateTo == ""
}

// Matches reports whether r satisfies every set predicate.
func (f ReceiptFilter) Matches(r Receipt) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.StudentName), q) &&
			!strings.Contains(strings.ToLower(r.AdmissionNumber), q) &&
			!strings.Contains(strings.ToLower(r.ReferenceID), q) {
			return false
		}
	}
	if f.ClassGrade != "" && r.ClassGrade != f.ClassGrade {
		return false
	}
	day := DateOnly(r.Date)
	if f.DateFrom != "" && day < f.DateFrom {
		return false
	}
	if f.DateTo != "" && day > f.DateTo {
		return false
	}
	return true
}

// TotalPages computes the page count for a result set: ceil(total/pageSize),
// never less than one so an empty collection still renders page 1 of 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Package sqlite is the persistent Store backed by a local SQLite file.
// Reference-id uniqueness rides on the table's UNIQUE constraint, so two
// concurrent inserts of the same reference cannot both succeed.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"toya/internal/core"
	"toya/internal/storage"

	_ "modernc.org/sqlite"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const receiptColumns = "student_name, admission_number, class_grade, payer_name, amount_cents, payment_method, reference_id, receipt_date, notes, created_at"

func (s *Store) InsertReceipt(ctx context.Context, r core.Receipt) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO receipts ("+receiptColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.StudentName, r.AdmissionNumber, r.ClassGrade, r.PayerName,
		r.Amount.Cents, r.PaymentMethod, r.ReferenceID, r.Date, r.Notes, r.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateReference
		}
		return fmt.Errorf("insert receipt: %w", err)
	}

	slog.InfoContext(ctx, "Receipt saved",
		"reference_id", r.ReferenceID,
		"amount_cents", r.Amount.Cents,
		"student", r.StudentName)
	return nil
}

func (s *Store) DeleteReceipt(ctx context.Context, referenceID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM receipts WHERE reference_id = ?", referenceID)
	if err != nil {
		return false, fmt.Errorf("delete receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete receipt rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) GetReceipt(ctx context.Context, referenceID string) (core.Receipt, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+receiptColumns+" FROM receipts WHERE reference_id = ?", referenceID)
	r, err := scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receipt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Receipt{}, fmt.Errorf("get receipt: %w", err)
	}
	return r, nil
}

func (s *Store) QueryReceipts(ctx context.Context, f core.ReceiptFilter, page, pageSize int) ([]core.Receipt, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM receipts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count receipts: %w", err)
	}

	if pageSize <= 0 {
		return nil, total, nil
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + receiptColumns + " FROM receipts" + where +
		" ORDER BY receipt_date DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	receipts, err := scanReceipts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("query receipts: %w", err)
	}
	return receipts, total, nil
}

func (s *Store) AllReceipts(ctx context.Context) ([]core.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+receiptColumns+" FROM receipts ORDER BY receipt_date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	receipts, err := scanReceipts(rows)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

func (s *Store) Totals(ctx context.Context) (storage.TotalsSnapshot, error) {
	var snap storage.TotalsSnapshot
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0), COUNT(*), COUNT(DISTINCT admission_number) FROM receipts").
		Scan(&snap.CollectedCents, &snap.ReceiptCount, &snap.StudentCount)
	if err != nil {
		return storage.TotalsSnapshot{}, fmt.Errorf("receipt totals: %w", err)
	}
	return snap, nil
}

func (s *Store) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		pairs[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return pairs, nil
}

func (s *Store) SaveSettings(ctx context.Context, pairs map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	defer tx.Rollback()

	for k, v := range pairs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			k, v)
		if err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

// buildWhere translates a ReceiptFilter to a WHERE clause. Date bounds
// compare on the calendar-day prefix so timestamped dates still land in
// the right range.
func buildWhere(f core.ReceiptFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds,
			"(LOWER(student_name) LIKE ? OR LOWER(admission_number) LIKE ? OR LOWER(reference_id) LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.ClassGrade != "" {
		conds = append(conds, "class_grade = ?")
		args = append(args, f.ClassGrade)
	}
	if f.DateFrom != "" {
		conds = append(conds, "substr(receipt_date, 1, 10) >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conds = append(conds, "substr(receipt_date, 1, 10) <= ?")
		args = append(args, f.DateTo)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (core.Receipt, error) {
	var r core.Receipt
	err := row.Scan(&r.StudentName, &r.AdmissionNumber, &r.ClassGrade, &r.PayerName,
		&r.Amount.Cents, &r.PaymentMethod, &r.ReferenceID, &r.Date, &r.Notes, &r.CreatedAt)
	return r, err
}

func scanReceipts(rows *sql.Rows) ([]core.Receipt, error) {
	var receipts []core.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// modernc.org/sqlite reports constraint failures as plain errors; the
// message carries the constraint class.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

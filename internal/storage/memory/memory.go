// Package memory provides an in-memory Store used as the default backend
// for demos and as the fixture store in tests. It mirrors the SQLite
// implementation's semantics exactly.
package memory

import (
	"context"
	"sort"
	"sync"

	"toya/internal/core"
	"toya/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	receipts []core.Receipt
	settings map[string]string
}

func New() *Store {
	return &Store{settings: make(map[string]string)}
}

func (s *Store) InsertReceipt(_ context.Context, r core.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.receipts {
		if existing.ReferenceID == r.ReferenceID {
			return core.ErrDuplicateReference
		}
	}
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *Store) DeleteReceipt(_ context.Context, referenceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.receipts {
		if r.ReferenceID == referenceID {
			s.receipts = append(s.receipts[:i], s.receipts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetReceipt(_ context.Context, referenceID string) (core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.receipts {
		if r.ReferenceID == referenceID {
			return r, nil
		}
	}
	return core.Receipt{}, core.ErrNotFound
}

func (s *Store) QueryReceipts(_ context.Context, f core.ReceiptFilter, page, pageSize int) ([]core.Receipt, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []core.Receipt
	for _, r := range s.receipts {
		if f.Matches(r) {
			matches = append(matches, r)
		}
	}
	sortByDateDesc(matches)

	total := len(matches)
	if pageSize <= 0 {
		return nil, total, nil
	}
	start := (page - 1) * pageSize
	if start < 0 || start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	out := make([]core.Receipt, end-start)
	copy(out, matches[start:end])
	return out, total, nil
}

func (s *Store) AllReceipts(_ context.Context) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Receipt, len(s.receipts))
	copy(out, s.receipts)
	sortByDateDesc(out)
	return out, nil
}

func (s *Store) Totals(_ context.Context) (storage.TotalsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storage.TotalsSnapshot{ReceiptCount: len(s.receipts)}
	students := make(map[string]struct{})
	for _, r := range s.receipts {
		snap.CollectedCents += r.Amount.Cents
		students[r.AdmissionNumber] = struct{}{}
	}
	snap.StudentCount = len(students)
	return snap, nil
}

func (s *Store) LoadSettings(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SaveSettings(_ context.Context, pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range pairs {
		s.settings[k] = v
	}
	return nil
}

func (s *Store) Close() error { return nil }

// sortByDateDesc orders most-recent-first. ISO-8601 date strings order
// lexicographically, so plain string comparison is enough.
func sortByDateDesc(receipts []core.Receipt) {
	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].Date > receipts[j].Date
	})
}

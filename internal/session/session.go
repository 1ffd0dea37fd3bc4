// Package session holds per-operator UI state: the active filter and page,
// the cashier-mode lock and the two-step delete confirmation.
package session

import (
	"sync"

	"toya/internal/core"
	"toya/internal/settings"
)

// Session is safe for concurrent use by handlers.
type Session struct {
	mu sync.Mutex

	settings settings.Settings
	filter   core.ReceiptFilter
	page     int
	pageSize int

	// pendingDelete holds the reference id awaiting confirmation; empty
	// means the confirmation flow is idle.
	pendingDelete string

	cashierUnlocked bool
}

func New(s settings.Settings, pageSize int) *Session {
	return &Session{
		settings: s,
		page:     1,
		pageSize: pageSize,
	}
}

func (s *Session) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) SetSettings(v settings.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = v
}

// SetFilter replaces the active filter and resets to page one, so a new
// search never points past the shrunken result set.
func (s *Session) SetFilter(f core.ReceiptFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.page = 1
}

func (s *Session) Filter() core.ReceiptFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page = page
}

func (s *Session) Page() (page, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page, s.pageSize
}

// RequestDelete arms the confirmation flow for the given reference,
// replacing any earlier pending request.
func (s *Session) RequestDelete(referenceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = referenceID
}

// CancelDelete disarms the flow without touching the collection.
func (s *Session) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = ""
}

// TakePendingDelete consumes the armed reference. When the flow is idle it
// returns ("", false), which makes a confirm without a prior request a
// no-op rather than a stray delete.
func (s *Session) TakePendingDelete() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingDelete == "" {
		return "", false
	}
	ref := s.pendingDelete
	s.pendingDelete = ""
	return ref, true
}

// PendingDelete reports the armed reference without consuming it.
func (s *Session) PendingDelete() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete, s.pendingDelete != ""
}

// UnlockCashier checks the PIN against the current settings and records
// the unlocked state on success.
func (s *Session) UnlockCashier(pin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settings.VerifyPIN(pin) {
		return false
	}
	s.cashierUnlocked = true
	return true
}

func (s *Session) LockCashier() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cashierUnlocked = false
}

func (s *Session) CashierUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cashierUnlocked
}

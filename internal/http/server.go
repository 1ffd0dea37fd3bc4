// Package http exposes the receipt register as a JSON API: the receipt
// collection, dashboard and report aggregates, settings and the backup
// download.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"toya/internal/services"
	"toya/internal/session"
	"toya/internal/storage"
)

type Server struct {
	http.Server
	svc      *services.ReceiptService
	store    storage.Store
	session  *session.Session
	pageSize int
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.ReceiptService, store storage.Store, sess *session.Session, pageSize int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:      svc,
		store:    store,
		session:  sess,
		pageSize: pageSize,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /receipts", s.withSecurityHeaders(s.handleCreateReceipt))
	mux.HandleFunc("GET /receipts", s.withSecurityHeaders(s.handleListReceipts))
	mux.HandleFunc("GET /receipts/{ref}", s.withSecurityHeaders(s.handleGetReceipt))
	mux.HandleFunc("GET /receipts/{ref}/qr.png", s.withSecurityHeaders(s.handleReceiptQR))

	// Two-step delete: request arms the confirmation, confirm consumes it.
	mux.HandleFunc("POST /receipts/{ref}/delete", s.withSecurityHeaders(s.handleRequestDelete))
	mux.HandleFunc("POST /receipts/delete/confirm", s.withSecurityHeaders(s.handleConfirmDelete))
	mux.HandleFunc("POST /receipts/delete/cancel", s.withSecurityHeaders(s.handleCancelDelete))

	mux.HandleFunc("GET /dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("GET /reports", s.withSecurityHeaders(s.handleReport))
	mux.HandleFunc("GET /reports/export.csv", s.withSecurityHeaders(s.handleReportCSV))
	mux.HandleFunc("GET /reports/export.xlsx", s.withSecurityHeaders(s.handleReportXLSX))
	mux.HandleFunc("GET /backup.json", s.withSecurityHeaders(s.handleBackupDownload))

	mux.HandleFunc("GET /settings", s.withSecurityHeaders(s.handleGetSettings))
	mux.HandleFunc("PUT /settings", s.withSecurityHeaders(s.handleUpdateSettings))
	mux.HandleFunc("POST /settings/pin/verify", s.withSecurityHeaders(s.handleVerifyPIN))
	mux.HandleFunc("POST /settings/pin/lock", s.withSecurityHeaders(s.handleLockCashier))

	return s
}

// withSecurityHeaders adds security headers and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", r.RemoteAddr)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Totals(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

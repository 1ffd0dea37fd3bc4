// Package worker runs the periodic backup loop alongside the HTTP server.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"toya/internal/export"
	"toya/internal/storage"
)

// BackupWorker periodically snapshots the full store to timestamped JSON
// files on disk.
type BackupWorker struct {
	store    storage.Store
	dir      string
	interval time.Duration
}

func NewBackupWorker(store storage.Store, dir string, interval time.Duration) *BackupWorker {
	return &BackupWorker{
		store:    store,
		dir:      dir,
		interval: interval,
	}
}

// Run writes backups on every tick until ctx is cancelled. A failed backup
// is logged and retried on the next tick; it never stops the loop.
func (w *BackupWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting backup worker",
		"dir", w.dir,
		"interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping backup worker", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if path, err := w.WriteBackup(ctx); err != nil {
				slog.ErrorContext(ctx, "Backup failed", "error", err)
			} else {
				slog.InfoContext(ctx, "Backup written", "path", path)
			}
		}
	}
}

// WriteBackup snapshots the store to a new file and returns its path.
func (w *BackupWorker) WriteBackup(ctx context.Context) (string, error) {
	receipts, err := w.store.AllReceipts(ctx)
	if err != nil {
		return "", fmt.Errorf("load receipts for backup: %w", err)
	}
	pairs, err := w.store.LoadSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings for backup: %w", err)
	}
	return export.WriteBackupFile(w.dir, export.NewBackup(pairs, receipts))
}

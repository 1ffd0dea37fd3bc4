package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"toya/internal/core"
)

// BackupVersion identifies the envelope layout for future restore tooling.
const BackupVersion = "1.0"

// BackupEnvelope is the full-state snapshot written by backups and the
// backup download: settings pairs plus every receipt.
type BackupEnvelope struct {
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Settings  map[string]string `json:"settings"`
	Receipts  []core.Receipt    `json:"receipts"`
}

// NewBackup assembles an envelope stamped with the current UTC time.
func NewBackup(settings map[string]string, receipts []core.Receipt) BackupEnvelope {
	if receipts == nil {
		receipts = []core.Receipt{}
	}
	if settings == nil {
		settings = map[string]string{}
	}
	return BackupEnvelope{
		Version:   BackupVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
		Receipts:  receipts,
	}
}

// MarshalBackup renders the envelope as indented JSON.
func MarshalBackup(env BackupEnvelope) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// WriteBackupFile writes the envelope to dir under a timestamped name and
// returns the written path.
func WriteBackupFile(dir string, env BackupEnvelope) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	data, err := MarshalBackup(env)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("toya_backup_%s.json", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return path, nil
}

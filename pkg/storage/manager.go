package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trendscout/pkg/models"
)

// Manager writes the run's result snapshot to disk
type Manager struct {
	outputPath string
}

// NewManager creates a storage manager for the given output file,
// creating the parent directory if needed
func NewManager(outputPath string) (*Manager, error) {
	dir := filepath.Dir(outputPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return &Manager{outputPath: outputPath}, nil
}

// OutputPath returns the snapshot destination
func (m *Manager) OutputPath() string {
	return m.outputPath
}

// Save writes the ordered records as one JSON snapshot. The write is
// atomic: data lands in a temp file first and is renamed into place,
// so an interrupted run never leaves a truncated snapshot behind.
// Non-ASCII text is preserved as-is, not escaped.
func (m *Manager) Save(records []models.TrendRecord) error {
	tempFile := m.outputPath + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err = enc.Encode(records)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, m.outputPath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Load reads a previously saved snapshot, used by the report command
func (m *Manager) Load() ([]models.TrendRecord, error) {
	data, err := os.ReadFile(m.outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var records []models.TrendRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return records, nil
}

package catalogue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"coursemap/internal/domain"
)

// SaveRecords writes the parsed-records artifact, pretty-printed for review.
func SaveRecords(path string, records []domain.CourseRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return writeFile(path, data)
}

// LoadRecords reads the parsed-records artifact.
func LoadRecords(path string) ([]domain.CourseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.CourseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return records, nil
}

// SaveEmbedded writes the embedded-records artifact. Compact encoding: the
// vectors make this file large.
func SaveEmbedded(path string, records []domain.EmbeddedRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal embedded records: %w", err)
	}
	return writeFile(path, data)
}

// LoadEmbedded reads the embedded-records artifact.
func LoadEmbedded(path string) ([]domain.EmbeddedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.EmbeddedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return records, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

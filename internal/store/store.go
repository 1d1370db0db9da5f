// Package store persists the outage dataset as a single JSON array on disk.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

const indent = "    "

// JSONStore reads and writes the dataset file at a fixed path.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the whole dataset. A missing file is created holding an empty
// array, along with any missing parent directories.
func (s *JSONStore) Load() ([]domain.OutageRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.seed(); err != nil {
			return nil, err
		}
		return []domain.OutageRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStorage, s.path, err)
	}

	var records []domain.OutageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorage, s.path, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: %s does not hold a JSON array", domain.ErrStorage, s.path)
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s record %d: %w", domain.ErrStorage, s.path, i, err)
		}
	}
	return records, nil
}

// Save overwrites the dataset file with records, pretty-printed.
func (s *JSONStore) Save(records []domain.OutageRecord) error {
	if records == nil {
		records = []domain.OutageRecord{}
	}
	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrStorage, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrStorage, s.path, err)
	}
	return nil
}

// CheckReadiness reports whether the dataset file exists and is a regular file.
func (s *JSONStore) CheckReadiness(_ context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", s.path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("dataset %s is not a regular file", s.path)
	}
	return nil
}

func (s *JSONStore) seed() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %w", domain.ErrStorage, s.path, err)
	}
	if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("%w: seed %s: %w", domain.ErrStorage, s.path, err)
	}
	return nil
}

// encode renders records the way the curated dataset is kept: four-space
// indentation with non-ASCII text and URLs left unescaped.
func encode(records []domain.OutageRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SortByDate orders records by ascending date in place. Records sharing a
// date keep their relative order.
func SortByDate(records []domain.OutageRecord) {
	slices.SortStableFunc(records, func(a, b domain.OutageRecord) int {
		return a.Date.Compare(b.Date.Time)
	})
}

// Extend appends more to records without removing duplicates.
func Extend(records []domain.OutageRecord, more ...domain.OutageRecord) []domain.OutageRecord {
	return append(records, more...)
}

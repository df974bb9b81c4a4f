// Package store persists a game's draw history as a pretty-printed JSON array.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/lottery"
)

// ErrNotFound is returned by Load when the data file does not exist.
var ErrNotFound = errors.New("data file not found")

// FileStore reads and rewrites one JSON data file.
// The file is rewritten in place; concurrent writers are not coordinated.
type FileStore struct {
	Path string
}

// New returns a store for path.
func New(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads all records. A missing file yields ErrNotFound.
func (s *FileStore) Load() ([]lottery.DrawRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var records []lottery.DrawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return records, nil
}

// LoadExisting is Load for the update path: a missing file is an empty history,
// while a malformed one is still an error.
func (s *FileStore) LoadExisting() ([]lottery.DrawRecord, error) {
	records, err := s.Load()
	if errors.Is(err, ErrNotFound) {
		logger.Infof("%s does not exist yet, a new one will be created", s.Path)
		return []lottery.DrawRecord{}, nil
	}
	if err != nil {
		logger.Errorf("failed to read existing records: %v", err)
		return nil, err
	}
	logger.Infof("read %d existing records from %s", len(records), s.Path)
	return records, nil
}

// Save rewrites the whole file with records.
func (s *FileStore) Save(records []lottery.DrawRecord) error {
	if records == nil {
		records = []lottery.DrawRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		logger.Errorf("failed to write %s: %v", s.Path, err)
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	logger.Infof("wrote %d records to %s", len(records), s.Path)
	return nil
}

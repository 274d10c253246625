package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/noticewatch/internal/core/aggregate"
)

// DatasetStore persists the aggregated review dataset as a single
// JSON document. The aggregator overwrites it; the review and learn
// tools load and rewrite it between sessions.
type DatasetStore struct {
	path   string
	logger *slog.Logger
}

// NewDatasetStore creates a store at path.
func NewDatasetStore(path string, logger *slog.Logger) *DatasetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetStore{path: path, logger: logger}
}

// Load reads the dataset document. A missing file is reported as
// os.ErrNotExist so callers can tell "run aggregate first" apart from
// a corrupt document.
func (s *DatasetStore) Load(ctx context.Context) (*aggregate.Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("review dataset not found at %s: %w", s.path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read review dataset: %w", err)
	}

	var ds aggregate.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse review dataset: %w", err)
	}
	return &ds, nil
}

// Save rewrites the dataset document in place.
func (s *DatasetStore) Save(ctx context.Context, ds *aggregate.Dataset) error {
	if err := writeDocument(s.path, ds); err != nil {
		return fmt.Errorf("failed to save review dataset: %w", err)
	}
	s.logger.Info("saved review dataset",
		slog.Int("groups", len(ds.Groups)),
		slog.Int("outliers", len(ds.Outliers)),
		slog.String("path", s.path))
	return nil
}

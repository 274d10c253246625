// Package jsonfile contains the whole-document JSON stores: the
// clerical-pattern config and the review dataset. Unlike the JSONL
// logs these are rewritten wholesale and assume a single writer.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/example/noticewatch/internal/core/pattern"
)

// configVersion identifies the pattern config document schema.
const configVersion = "1.0"

// PatternStore persists patterns as a versioned config document.
type PatternStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewPatternStore creates a store at path.
func NewPatternStore(path string, logger *slog.Logger) *PatternStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternStore{path: path, logger: logger, now: time.Now}
}

type patternConfig struct {
	Version          string                   `json:"version"`
	LastUpdated      time.Time                `json:"last_updated"`
	Patterns         []pattern.Pattern        `json:"patterns"`
	ApplicationRules pattern.ApplicationRules `json:"application_rules"`
}

// Load returns the stored patterns in persisted order. A missing or
// unreadable config is a normal cold-start state: it yields an empty
// list with a warning, never an error.
func (s *PatternStore) Load(ctx context.Context) []pattern.Pattern {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("clerical patterns config not found", slog.String("path", s.path))
		} else {
			s.logger.Error("failed to read clerical patterns", slog.Any("error", err))
		}
		return nil
	}

	var cfg patternConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Error("failed to parse clerical patterns", slog.Any("error", err))
		return nil
	}

	s.logger.Info("loaded clerical patterns", slog.Int("count", len(cfg.Patterns)))
	return cfg.Patterns
}

// Save rewrites the config document with the patterns sorted by
// (confidence, sample size) descending, so the matcher's first-match
// iteration prefers the strongest rule.
func (s *PatternStore) Save(ctx context.Context, patterns []pattern.Pattern, rules pattern.ApplicationRules) error {
	sorted := make([]pattern.Pattern, len(patterns))
	copy(sorted, patterns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].SampleSize > sorted[j].SampleSize
	})

	cfg := patternConfig{
		Version:          configVersion,
		LastUpdated:      s.now(),
		Patterns:         sorted,
		ApplicationRules: rules,
	}

	if err := writeDocument(s.path, cfg); err != nil {
		return fmt.Errorf("failed to save clerical patterns: %w", err)
	}
	s.logger.Info("saved clerical patterns",
		slog.Int("count", len(sorted)), slog.String("path", s.path))
	return nil
}

// writeDocument marshals v with indentation and writes it at path,
// creating the parent directory as needed.
func writeDocument(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

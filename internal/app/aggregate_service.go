// Package app contains the application services: the use-case layer
// between the CLI and the stores, orchestrating the pure core packages.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// AggregateServiceImpl implements the AggregateService interface.
type AggregateServiceImpl struct {
	noticeLog    secondary.NoticeLog
	datasetStore secondary.DatasetStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewAggregateService creates a new AggregateService with injected dependencies.
func NewAggregateService(noticeLog secondary.NoticeLog, datasetStore secondary.DatasetStore, logger *slog.Logger) *AggregateServiceImpl {
	return &AggregateServiceImpl{
		noticeLog:    noticeLog,
		datasetStore: datasetStore,
		logger:       logger,
		now:          time.Now,
	}
}

// Aggregate loads the notice log, groups it by signature, and rewrites
// the review dataset. Any prior dataset and its review progress are
// replaced.
func (s *AggregateServiceImpl) Aggregate(ctx context.Context) (*aggregate.Dataset, error) {
	notices, err := s.noticeLog.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice log: %w", err)
	}

	ds := aggregate.Build(notices, s.now())

	if err := s.datasetStore.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to persist review dataset: %w", err)
	}

	s.logger.Info("aggregated notice log",
		slog.Int("notices", len(notices)),
		slog.Int("groups", len(ds.Groups)),
		slog.Int("outliers", len(ds.Outliers)))
	return ds, nil
}

// Ensure AggregateServiceImpl implements the interface.
var _ primary.AggregateService = (*AggregateServiceImpl)(nil)

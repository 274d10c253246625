package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// StatsServiceImpl implements the StatsService interface.
type StatsServiceImpl struct {
	decisionLog secondary.DecisionLog
	noticeLog   secondary.NoticeLog
	archive     secondary.DecisionArchive
	logger      *slog.Logger
}

// NewStatsService creates a new StatsService with injected dependencies.
func NewStatsService(decisionLog secondary.DecisionLog, noticeLog secondary.NoticeLog, archive secondary.DecisionArchive, logger *slog.Logger) *StatsServiceImpl {
	return &StatsServiceImpl{
		decisionLog: decisionLog,
		noticeLog:   noticeLog,
		archive:     archive,
		logger:      logger,
	}
}

// Stats rebuilds the archive from the logs and serves the rollups. The
// rebuild keeps the derived index honest even after sessions that ran
// without archive writes.
func (s *StatsServiceImpl) Stats(ctx context.Context) (*secondary.ArchiveStats, error) {
	decisions, err := s.decisionLog.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load decision log: %w", err)
	}
	notices, err := s.noticeLog.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice log: %w", err)
	}

	if err := s.archive.Rebuild(ctx, decisions, notices); err != nil {
		return nil, fmt.Errorf("failed to rebuild decision archive: %w", err)
	}

	stats, err := s.archive.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive stats: %w", err)
	}

	s.logger.Info("archive rebuilt", slog.Int("decisions", stats.TotalDecisions))
	return stats, nil
}

// Ensure StatsServiceImpl implements the interface.
var _ primary.StatsService = (*StatsServiceImpl)(nil)

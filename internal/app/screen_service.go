package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// ScreenServiceImpl implements the ScreenService interface: the online
// path that classifies a fresh notice and records it.
type ScreenServiceImpl struct {
	patternStore secondary.PatternStore
	noticeLog    secondary.NoticeLog
	logger       *slog.Logger
	now          func() time.Time
}

// NewScreenService creates a new ScreenService with injected dependencies.
func NewScreenService(patternStore secondary.PatternStore, noticeLog secondary.NoticeLog, logger *slog.Logger) *ScreenServiceImpl {
	return &ScreenServiceImpl{
		patternStore: patternStore,
		noticeLog:    noticeLog,
		logger:       logger,
		now:          time.Now,
	}
}

// Screen evaluates one notice against the learned patterns, stamps the
// outcome onto it, and appends it to the notice log. The outcome is
// returned whatever the log write did; classification must not depend
// on persistence.
func (s *ScreenServiceImpl) Screen(ctx context.Context, n *notice.Notice, minConfidence float64) (pattern.Outcome, error) {
	if err := n.Validate(); err != nil {
		return pattern.Outcome{}, fmt.Errorf("invalid notice: %w", err)
	}
	if minConfidence <= 0 {
		minConfidence = pattern.DefaultMinConfidence
	}

	patterns := s.patternStore.Load(ctx)
	outcome := pattern.Evaluate(n, patterns, minConfidence)

	if n.DetectedAt.IsZero() {
		n.DetectedAt = s.now()
	}
	switch outcome.Status {
	case pattern.StatusWhitelisted:
		n.WhitelistPatternID = outcome.PatternID
	case pattern.StatusSuggested:
		n.WhitelistPatternID = outcome.LegacyPatternID()
	}

	s.noticeLog.Append(ctx, n)

	s.logger.Info("screened notice",
		slog.String("bill_id", n.BillID),
		slog.String("status", outcome.Status.String()),
		slog.String("pattern_id", outcome.PatternID))
	return outcome, nil
}

// Ensure ScreenServiceImpl implements the interface.
var _ primary.ScreenService = (*ScreenServiceImpl)(nil)

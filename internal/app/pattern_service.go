package app

import (
	"context"
	"log/slog"

	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// PatternServiceImpl implements the PatternService interface.
type PatternServiceImpl struct {
	patternStore secondary.PatternStore
}

// NewPatternService creates a new PatternService.
func NewPatternService(patternStore secondary.PatternStore) *PatternServiceImpl {
	return &PatternServiceImpl{patternStore: patternStore}
}

// List returns the stored patterns in persisted order.
func (s *PatternServiceImpl) List(ctx context.Context) []pattern.Pattern {
	return s.patternStore.Load(ctx)
}

// Get finds a pattern by id.
func (s *PatternServiceImpl) Get(ctx context.Context, id string) (*pattern.Pattern, bool) {
	for _, p := range s.patternStore.Load(ctx) {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

// Ensure PatternServiceImpl implements the interface.
var _ primary.PatternService = (*PatternServiceImpl)(nil)

// NoticeLogServiceImpl implements the NoticeLogService interface.
type NoticeLogServiceImpl struct {
	noticeLog secondary.NoticeLog
	logger    *slog.Logger
}

// NewNoticeLogService creates a new NoticeLogService.
func NewNoticeLogService(noticeLog secondary.NoticeLog, logger *slog.Logger) *NoticeLogServiceImpl {
	return &NoticeLogServiceImpl{noticeLog: noticeLog, logger: logger}
}

// List returns every parseable record from the notice log.
func (s *NoticeLogServiceImpl) List(ctx context.Context) ([]*notice.Notice, error) {
	return s.noticeLog.LoadAll(ctx)
}

// Clear destroys the notice log. Callers gate this behind explicit
// confirmation; the service just executes.
func (s *NoticeLogServiceImpl) Clear(ctx context.Context) error {
	if err := s.noticeLog.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("notice log cleared")
	return nil
}

// Ensure NoticeLogServiceImpl implements the interface.
var _ primary.NoticeLogService = (*NoticeLogServiceImpl)(nil)

package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/core/review"
	"github.com/example/noticewatch/internal/ports/secondary"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Ensure mockNoticeLog implements the interface
var _ secondary.NoticeLog = (*mockNoticeLog)(nil)

// mockNoticeLog implements secondary.NoticeLog for testing.
type mockNoticeLog struct {
	notices []*notice.Notice
	loadErr error
	cleared bool
}

func (m *mockNoticeLog) Append(ctx context.Context, n *notice.Notice) {
	m.notices = append(m.notices, n)
}

func (m *mockNoticeLog) LoadAll(ctx context.Context) ([]*notice.Notice, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.notices, nil
}

func (m *mockNoticeLog) Clear(ctx context.Context) error {
	m.notices = nil
	m.cleared = true
	return nil
}

// Ensure mockDecisionLog implements the interface
var _ secondary.DecisionLog = (*mockDecisionLog)(nil)

// mockDecisionLog implements secondary.DecisionLog for testing.
type mockDecisionLog struct {
	decisions []review.Decision
	appendErr error
}

func (m *mockDecisionLog) Append(ctx context.Context, d review.Decision) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.decisions = append(m.decisions, d)
	return nil
}

func (m *mockDecisionLog) LoadAll(ctx context.Context) ([]review.Decision, error) {
	return m.decisions, nil
}

// Ensure mockPatternStore implements the interface
var _ secondary.PatternStore = (*mockPatternStore)(nil)

// mockPatternStore implements secondary.PatternStore for testing.
type mockPatternStore struct {
	patterns   []pattern.Pattern
	savedRules pattern.ApplicationRules
	saveErr    error
	saveCount  int
}

func (m *mockPatternStore) Load(ctx context.Context) []pattern.Pattern {
	return m.patterns
}

func (m *mockPatternStore) Save(ctx context.Context, patterns []pattern.Pattern, rules pattern.ApplicationRules) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.patterns = patterns
	m.savedRules = rules
	m.saveCount++
	return nil
}

// Ensure mockDatasetStore implements the interface
var _ secondary.DatasetStore = (*mockDatasetStore)(nil)

// mockDatasetStore implements secondary.DatasetStore for testing.
type mockDatasetStore struct {
	dataset   *aggregate.Dataset
	loadErr   error
	saveCount int
}

func (m *mockDatasetStore) Load(ctx context.Context) (*aggregate.Dataset, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.dataset, nil
}

func (m *mockDatasetStore) Save(ctx context.Context, ds *aggregate.Dataset) error {
	m.dataset = ds
	m.saveCount++
	return nil
}

// Ensure mockArchive implements the interface
var _ secondary.DecisionArchive = (*mockArchive)(nil)

// mockArchive implements secondary.DecisionArchive for testing.
type mockArchive struct {
	recorded  []review.Decision
	rebuilt   []review.Decision
	stats     *secondary.ArchiveStats
	recordErr error
}

func (m *mockArchive) Rebuild(ctx context.Context, decisions []review.Decision, notices []*notice.Notice) error {
	m.rebuilt = decisions
	return nil
}

func (m *mockArchive) Record(ctx context.Context, d review.Decision) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, d)
	return nil
}

func (m *mockArchive) Stats(ctx context.Context) (*secondary.ArchiveStats, error) {
	if m.stats != nil {
		return m.stats, nil
	}
	return &secondary.ArchiveStats{TotalDecisions: len(m.rebuilt)}, nil
}

func (m *mockArchive) Close() error { return nil }

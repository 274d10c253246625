// Package primary defines the primary ports (driving interfaces) of
// the application: the operations the CLI invokes.
package primary

import (
	"context"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// AggregateService builds the review dataset from the notice log.
type AggregateService interface {
	Aggregate(ctx context.Context) (*aggregate.Dataset, error)
}

// ReviewService runs interactive review sessions over the dataset.
type ReviewService interface {
	// StartSession loads the dataset and returns a live session.
	StartSession(ctx context.Context) (ReviewSession, error)
}

// ReviewSession is one review pass. Decisions are persisted durably
// the moment they are recorded; Finish rewrites the dataset document
// with the session's accumulated state.
type ReviewSession interface {
	Current() (*aggregate.CaseDoc, *aggregate.GroupDoc, bool)
	GroupPosition() (current, total int)
	Progress() (reviewed, total int)
	Skip()
	Decide(ctx context.Context, determination, notes string) error
	DecideGroup(ctx context.Context, determination, notes string) (int, error)
	Finish(ctx context.Context) error
}

// LearnService mines clerical patterns from reviewed cases and merges
// them into the pattern store.
type LearnService interface {
	Learn(ctx context.Context, req LearnRequest) (*LearnResult, error)
}

// LearnRequest carries the learner thresholds.
type LearnRequest struct {
	MinSampleSize int
	MinConfidence float64
	// Merge keeps unrelated existing patterns; when false the store is
	// replaced outright.
	Merge bool
}

// LearnResult reports what the learner produced and persisted.
type LearnResult struct {
	Learned     []pattern.Pattern
	StoredTotal int
}

// ScreenService is the online path: evaluate one fresh notice against
// the learned patterns and record it on the log.
type ScreenService interface {
	Screen(ctx context.Context, n *notice.Notice, minConfidence float64) (pattern.Outcome, error)
}

// StatsService rebuilds the decision archive and serves rollups.
type StatsService interface {
	Stats(ctx context.Context) (*secondary.ArchiveStats, error)
}

// PatternService exposes the pattern store for inspection.
type PatternService interface {
	List(ctx context.Context) []pattern.Pattern
	Get(ctx context.Context, id string) (*pattern.Pattern, bool)
}

// NoticeLogService exposes the notice log for inspection and explicit
// destructive reset.
type NoticeLogService interface {
	List(ctx context.Context) ([]*notice.Notice, error)
	Clear(ctx context.Context) error
}

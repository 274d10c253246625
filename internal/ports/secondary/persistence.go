// Package secondary defines the secondary ports (driven adapters) for
// the application: the durable stores the services write to and read
// from.
package secondary

import (
	"context"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/core/review"
)

// NoticeLog is the append-only store of raw notice records.
type NoticeLog interface {
	// Append serializes the notice onto the log. Implementations catch
	// and log write faults instead of returning them: detection must
	// proceed even when a single log write fails.
	Append(ctx context.Context, n *notice.Notice)

	// LoadAll streams every parseable record from the log. Blank lines
	// are ignored; corrupt lines are warned about and skipped.
	LoadAll(ctx context.Context) ([]*notice.Notice, error)

	// Clear destroys the log. Explicit opt-in only.
	Clear(ctx context.Context) error
}

// DecisionLog is the append-only store of review decisions. This is
// the durable review artifact; each decision is written synchronously
// at the moment it is made.
type DecisionLog interface {
	Append(ctx context.Context, d review.Decision) error
	LoadAll(ctx context.Context) ([]review.Decision, error)
}

// PatternStore persists the clerical-pattern config document.
type PatternStore interface {
	// Load returns the stored patterns in persisted order. A missing
	// or unreadable store is a normal cold-start state and yields an
	// empty list, never an error.
	Load(ctx context.Context) []pattern.Pattern

	// Save rewrites the versioned config document with patterns sorted
	// by (confidence, sample size) descending.
	Save(ctx context.Context, patterns []pattern.Pattern, rules pattern.ApplicationRules) error
}

// DatasetStore persists the review dataset document wholesale.
type DatasetStore interface {
	Load(ctx context.Context) (*aggregate.Dataset, error)
	Save(ctx context.Context, ds *aggregate.Dataset) error
}

// DecisionArchive is a derived, rebuildable index of review decisions
// joined with notice identity. It answers aggregate queries and is
// never authoritative.
type DecisionArchive interface {
	// Rebuild resets the archive and re-indexes every decision,
	// enriching rows with notice context where a bill id matches.
	Rebuild(ctx context.Context, decisions []review.Decision, notices []*notice.Notice) error

	// Record indexes one decision best-effort during a review session.
	Record(ctx context.Context, d review.Decision) error

	// Stats aggregates the indexed decisions.
	Stats(ctx context.Context) (*ArchiveStats, error)

	Close() error
}

// ArchiveStats are the rollups served by the stats command.
type ArchiveStats struct {
	TotalDecisions int
	ClericalCount  int
	ViolationCount int
	GroupApplied   int
	DistinctBills  int
	ByReviewer     []ReviewerCount
	ByCommittee    []CommitteeCount
}

// ReviewerCount is one reviewer's decision tally.
type ReviewerCount struct {
	Reviewer string
	Count    int
}

// CommitteeCount is one committee's decision tally.
type CommitteeCount struct {
	CommitteeID    string
	Count          int
	ClericalCount  int
	ViolationCount int
}

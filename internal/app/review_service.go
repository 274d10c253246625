package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/core/review"
	"github.com/example/noticewatch/internal/ctxutil"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// ReviewServiceImpl implements the ReviewService interface.
type ReviewServiceImpl struct {
	datasetStore secondary.DatasetStore
	decisionLog  secondary.DecisionLog
	archive      secondary.DecisionArchive
	reviewer     string
	logger       *slog.Logger
	now          func() time.Time
}

// NewReviewService creates a new ReviewService with injected dependencies.
// The archive may be nil when no decision archive is configured.
func NewReviewService(datasetStore secondary.DatasetStore, decisionLog secondary.DecisionLog, archive secondary.DecisionArchive, reviewer string, logger *slog.Logger) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		datasetStore: datasetStore,
		decisionLog:  decisionLog,
		archive:      archive,
		reviewer:     reviewer,
		logger:       logger,
		now:          time.Now,
	}
}

// StartSession loads the dataset and returns a live review session. A
// reviewer identity on the context overrides the configured default.
func (s *ReviewServiceImpl) StartSession(ctx context.Context) (primary.ReviewSession, error) {
	ds, err := s.datasetStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load review dataset: %w", err)
	}

	reviewer := ctxutil.ReviewerFromContext(ctx)
	if reviewer == "" {
		reviewer = s.reviewer
	}

	return &reviewSession{
		svc:     s,
		session: review.NewSession(ds, reviewer),
	}, nil
}

// reviewSession wraps the pure core session with persistence: every
// decision is appended to the decision log before the session moves
// on, so an interrupted session loses nothing already decided.
type reviewSession struct {
	svc     *ReviewServiceImpl
	session *review.Session
}

func (rs *reviewSession) Current() (*aggregate.CaseDoc, *aggregate.GroupDoc, bool) {
	return rs.session.Current()
}

func (rs *reviewSession) GroupPosition() (int, int) {
	return rs.session.GroupPosition()
}

func (rs *reviewSession) Progress() (int, int) {
	return rs.session.Progress()
}

func (rs *reviewSession) Skip() {
	rs.session.Skip()
}

// Decide records a single-case determination and persists it.
func (rs *reviewSession) Decide(ctx context.Context, determination, notes string) error {
	d, ok := rs.session.Decide(determination, notes, rs.svc.now())
	if !ok {
		return fmt.Errorf("no case pending review")
	}
	return rs.persist(ctx, d)
}

// DecideGroup applies one determination to every pending case in the
// current group, persisting each decision.
func (rs *reviewSession) DecideGroup(ctx context.Context, determination, notes string) (int, error) {
	decisions := rs.session.DecideGroup(determination, notes, rs.svc.now())
	for i, d := range decisions {
		if err := rs.persist(ctx, d); err != nil {
			return i, err
		}
	}
	return len(decisions), nil
}

func (rs *reviewSession) persist(ctx context.Context, d review.Decision) error {
	if err := rs.svc.decisionLog.Append(ctx, d); err != nil {
		return fmt.Errorf("failed to record decision for %s: %w", d.BillID, err)
	}
	// The archive is a derived index; a write fault there must not
	// interrupt the session.
	if rs.svc.archive != nil {
		if err := rs.svc.archive.Record(ctx, d); err != nil {
			rs.svc.logger.Warn("failed to index decision",
				slog.String("bill_id", d.BillID), slog.Any("error", err))
		}
	}
	return nil
}

// Finish rewrites the dataset document with the session's accumulated
// review state.
func (rs *reviewSession) Finish(ctx context.Context) error {
	if err := rs.svc.datasetStore.Save(ctx, rs.session.Dataset()); err != nil {
		return fmt.Errorf("failed to save review progress: %w", err)
	}
	reviewed, total := rs.session.Progress()
	rs.svc.logger.Info("review session saved",
		slog.Int("reviewed", reviewed), slog.Int("total", total))
	return nil
}

// Ensure ReviewServiceImpl implements the interface.
var _ primary.ReviewService = (*ReviewServiceImpl)(nil)

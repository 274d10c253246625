package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/example/noticewatch/internal/core/learn"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// ErrNoReviews signals that the learner has nothing to work from: no
// decision has been recorded against the current dataset.
var ErrNoReviews = errors.New("no completed reviews found")

// LearnServiceImpl implements the LearnService interface.
type LearnServiceImpl struct {
	datasetStore secondary.DatasetStore
	decisionLog  secondary.DecisionLog
	patternStore secondary.PatternStore
	logger       *slog.Logger
}

// NewLearnService creates a new LearnService with injected dependencies.
func NewLearnService(datasetStore secondary.DatasetStore, decisionLog secondary.DecisionLog, patternStore secondary.PatternStore, logger *slog.Logger) *LearnServiceImpl {
	return &LearnServiceImpl{
		datasetStore: datasetStore,
		decisionLog:  decisionLog,
		patternStore: patternStore,
		logger:       logger,
	}
}

// Learn replays the decision log onto the dataset, mines patterns from
// groups that clear the thresholds, and persists the result.
func (s *LearnServiceImpl) Learn(ctx context.Context, req primary.LearnRequest) (*primary.LearnResult, error) {
	ds, err := s.datasetStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load review dataset: %w", err)
	}

	decisions, err := s.decisionLog.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load decision log: %w", err)
	}
	if len(decisions) == 0 {
		return nil, ErrNoReviews
	}

	// The decision log is authoritative for review state; the dataset
	// document may lag behind an interrupted session.
	learn.ApplyDecisions(ds, decisions)

	minSample := req.MinSampleSize
	if minSample <= 0 {
		minSample = learn.DefaultMinSampleSize
	}
	minConfidence := req.MinConfidence
	if minConfidence <= 0 {
		minConfidence = learn.DefaultMinConfidence
	}

	learned := learn.Learn(ds, minSample, minConfidence)

	stored := learned
	if req.Merge {
		stored = mergePatterns(s.patternStore.Load(ctx), learned)
	}

	if err := s.patternStore.Save(ctx, stored, pattern.DefaultApplicationRules()); err != nil {
		return nil, fmt.Errorf("failed to persist patterns: %w", err)
	}

	s.logger.Info("pattern learning complete",
		slog.Int("learned", len(learned)),
		slog.Int("stored", len(stored)))
	return &primary.LearnResult{Learned: learned, StoredTotal: len(stored)}, nil
}

// mergePatterns overlays newly learned patterns onto the existing
// store by id. Untouched existing patterns survive; relearned ids are
// replaced with the fresher derivation.
func mergePatterns(existing, learned []pattern.Pattern) []pattern.Pattern {
	byID := make(map[string]int, len(existing))
	merged := make([]pattern.Pattern, len(existing))
	copy(merged, existing)
	for i, p := range merged {
		byID[p.ID] = i
	}

	for _, p := range learned {
		if i, ok := byID[p.ID]; ok {
			merged[i] = p
		} else {
			byID[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].SampleSize > merged[j].SampleSize
	})
	return merged
}

// Ensure LearnServiceImpl implements the interface.
var _ primary.LearnService = (*LearnServiceImpl)(nil)

// Package review contains the review-decision model and the session
// state machine driven by the interactive review command. The session
// is single-threaded and synchronous; it suspends only at the CLI's
// prompts.
package review

import (
	"time"

	"github.com/example/noticewatch/internal/core/aggregate"
)

// Determination values recorded for a case.
const (
	DeterminationClerical  = aggregate.DeterminationClerical
	DeterminationViolation = aggregate.DeterminationViolation
)

// Decision is one human judgment. Decisions are appended to the
// decision log at the moment they are made and never mutated.
type Decision struct {
	BillID        string    `json:"bill_id"`
	Determination string    `json:"determination"`
	Notes         string    `json:"notes"`
	ApplyToGroup  bool      `json:"apply_to_group"`
	Reviewer      string    `json:"reviewer"`
	Timestamp     time.Time `json:"timestamp"`
}

// Session walks the dataset group by group, case by case, and applies
// decisions to the in-memory projection. It owns the dataset for the
// duration of the run; durable persistence of each decision is the
// caller's job.
type Session struct {
	dataset  *aggregate.Dataset
	reviewer string

	groupIdx int
	caseIdx  int
}

// NewSession starts a review pass over the dataset.
func NewSession(dataset *aggregate.Dataset, reviewer string) *Session {
	return &Session{dataset: dataset, reviewer: reviewer}
}

// Dataset exposes the session's in-memory projection, including any
// decisions applied so far.
func (s *Session) Dataset() *aggregate.Dataset {
	return s.dataset
}

// GroupPosition reports the 1-based current group and the group total.
func (s *Session) GroupPosition() (int, int) {
	return s.groupIdx + 1, len(s.dataset.Groups)
}

// Current returns the case and group under review, advancing past
// already-decided cases and exhausted groups. ok is false when every
// group has been exhausted.
func (s *Session) Current() (c *aggregate.CaseDoc, g *aggregate.GroupDoc, ok bool) {
	for s.groupIdx < len(s.dataset.Groups) {
		group := s.dataset.Groups[s.groupIdx]
		for s.caseIdx < len(group.Cases) {
			candidate := group.Cases[s.caseIdx]
			if candidate.ReviewStatus.Determination == aggregate.DeterminationPending {
				return candidate, group, true
			}
			s.caseIdx++
		}
		s.groupIdx++
		s.caseIdx = 0
	}
	return nil, nil, false
}

// Skip advances past the current case without recording a decision.
// The case stays pending and resurfaces only on a fresh session.
func (s *Session) Skip() {
	s.caseIdx++
}

// Decide records a determination for the current case and advances by
// one. The returned decision is what the caller must persist; ok is
// false when there is no current case.
func (s *Session) Decide(determination, notes string, now time.Time) (Decision, bool) {
	c, g, ok := s.Current()
	if !ok {
		return Decision{}, false
	}

	s.mark(c, g, determination, notes)
	s.caseIdx++

	return Decision{
		BillID:        c.BillID,
		Determination: determination,
		Notes:         notes,
		Reviewer:      s.reviewer,
		Timestamp:     now,
	}, true
}

// DecideGroup applies one determination to every still-pending case in
// the current group, then moves to the next group. It returns one
// decision per affected case, in group order.
func (s *Session) DecideGroup(determination, notes string, now time.Time) []Decision {
	_, group, ok := s.Current()
	if !ok {
		return nil
	}

	var decisions []Decision
	for _, c := range group.PendingCases() {
		s.mark(c, group, determination, notes)
		decisions = append(decisions, Decision{
			BillID:        c.BillID,
			Determination: determination,
			Notes:         notes,
			ApplyToGroup:  true,
			Reviewer:      s.reviewer,
			Timestamp:     now,
		})
	}

	s.groupIdx++
	s.caseIdx = 0
	return decisions
}

func (s *Session) mark(c *aggregate.CaseDoc, g *aggregate.GroupDoc, determination, notes string) {
	c.ReviewStatus.Reviewed = true
	c.ReviewStatus.Determination = determination
	if notes != "" {
		c.ReviewStatus.ReviewerNotes = notes
	}

	g.ReviewedCount++
	switch determination {
	case aggregate.DeterminationClerical:
		g.ClericalCount++
	case aggregate.DeterminationViolation:
		g.ViolationCount++
	}
	score := float64(g.ClericalCount) / float64(g.ReviewedCount)
	g.ConfidenceScore = &score

	s.dataset.Metadata.ReviewedCount++
	s.dataset.Metadata.UnreviewedCount--
}

// HasPending reports whether the session still has a case to present.
// Cases skipped earlier in the run do not count; they resurface only
// when a fresh session starts.
func (s *Session) HasPending() bool {
	groupIdx, caseIdx := s.groupIdx, s.caseIdx
	for groupIdx < len(s.dataset.Groups) {
		group := s.dataset.Groups[groupIdx]
		for caseIdx < len(group.Cases) {
			if group.Cases[caseIdx].ReviewStatus.Determination == aggregate.DeterminationPending {
				return true
			}
			caseIdx++
		}
		groupIdx++
		caseIdx = 0
	}
	return false
}

// Progress reports dataset-wide reviewed and total case counts.
func (s *Session) Progress() (reviewed, total int) {
	return s.dataset.Metadata.ReviewedCount, s.dataset.Metadata.TotalCases
}

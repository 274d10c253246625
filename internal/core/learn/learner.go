// Package learn derives clerical patterns from reviewed cases. Groups
// with enough consistent expert determinations become whitelist rules
// that auto-classify future cases.
package learn

import (
	"fmt"
	"strings"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/core/pattern"
	"github.com/example/noticewatch/internal/core/review"
)

// Default learning thresholds.
const (
	DefaultMinSampleSize = 5
	DefaultMinConfidence = 0.85
)

// maxRetroactiveEntryDays caps how many days after the hearing a
// retroactive correction may have been entered for the learned rule to
// apply. Stale corrections must not generalize.
const maxRetroactiveEntryDays = 3

// priorNoticeFloor is the minimum prior lead time a learned rule will
// accept regardless of the observed sample.
const priorNoticeFloor = 10

// ApplyDecisions patches dataset cases with review decisions, matched
// by bill id. This lets decisions recorded outside the current dataset
// revision take effect without re-aggregating from the log.
func ApplyDecisions(ds *aggregate.Dataset, decisions []review.Decision) {
	byBill := make(map[string]review.Decision, len(decisions))
	for _, d := range decisions {
		byBill[d.BillID] = d
	}

	for _, g := range ds.Groups {
		for _, c := range g.Cases {
			d, ok := byBill[c.BillID]
			if !ok {
				continue
			}
			c.ReviewStatus.Reviewed = true
			c.ReviewStatus.Determination = d.Determination
			if d.Notes != "" {
				c.ReviewStatus.ReviewerNotes = d.Notes
			}
		}
	}
}

// Learn scans the dataset's signature groups and emits one pattern per
// group whose reviewed cases clear the sample-size and confidence
// gates. Pattern ids are assigned sequentially in group order.
func Learn(ds *aggregate.Dataset, minSampleSize int, minConfidence float64) []pattern.Pattern {
	var patterns []pattern.Pattern
	nextID := 1

	for _, g := range ds.Groups {
		var reviewed []*aggregate.CaseDoc
		for _, c := range g.Cases {
			if c.ReviewStatus.Reviewed {
				reviewed = append(reviewed, c)
			}
		}
		if len(reviewed) < minSampleSize {
			continue
		}

		clerical := 0
		for _, c := range reviewed {
			if c.ReviewStatus.Determination == aggregate.DeterminationClerical {
				clerical++
			}
		}
		confidence := float64(clerical) / float64(len(reviewed))
		if confidence < minConfidence {
			continue
		}

		chars := g.Characteristics

		p := pattern.Pattern{
			ID:            fmt.Sprintf("pattern_%03d", nextID),
			Name:          g.PatternDescription,
			Confidence:    confidence,
			SampleSize:    len(reviewed),
			Enabled:       true,
			Criteria:      deriveCriteria(chars),
			Description:   describe(chars),
			ReviewerNotes: combinedNotes(reviewed),
			ExampleBills:  exampleBills(reviewed),
		}

		patterns = append(patterns, p)
		nextID++
	}

	return patterns
}

// deriveCriteria turns a group's representative characteristics into
// matching criteria. Ranges are widened by one day around the observed
// value, in the direction of the sign, so near-identical future cases
// still match.
func deriveCriteria(chars aggregate.Characteristics) map[string]pattern.Criterion {
	criteria := make(map[string]pattern.Criterion)

	if chars.IsRetroactive {
		criteria["notice_days"] = pattern.RangeBetween(float64(chars.NoticeDays-1), 0)
	} else {
		criteria["notice_days"] = pattern.RangeBetween(0, float64(chars.NoticeDays+1))
	}

	if chars.ActionType != "" {
		criteria["action_type"] = pattern.OneOf(chars.ActionType)
	}

	if chars.HadPriorValidNotice {
		criteria["had_prior_valid_notice"] = pattern.Exact(true)
		if chars.PriorNoticeDays != nil && *chars.PriorNoticeDays != 0 {
			floor := *chars.PriorNoticeDays - 2
			if floor < priorNoticeFloor {
				floor = priorNoticeFloor
			}
			criteria["prior_notice_days"] = pattern.RangeMin(float64(floor))
		}
	}

	if chars.HadSameDayTimeChange {
		criteria["had_same_day_time_change"] = pattern.Exact(true)
	}
	if chars.TextContainsVirtual {
		criteria["text_contains_virtual"] = pattern.Exact(true)
	}
	if chars.TextContainsTime {
		criteria["text_contains_time"] = pattern.Exact(true)
	}

	if chars.IsRetroactive {
		criteria["time_between_hearing_and_action"] = pattern.RangeBetween(0, maxRetroactiveEntryDays)
	}

	return criteria
}

func describe(chars aggregate.Characteristics) string {
	var parts []string

	parts = append(parts, "Hearing "+strings.ToLower(strings.ReplaceAll(chars.ActionType, "_", " ")))

	if chars.HadPriorValidNotice {
		prior := "10+"
		if chars.PriorNoticeDays != nil {
			prior = fmt.Sprintf("%d", *chars.PriorNoticeDays)
		}
		parts = append(parts, fmt.Sprintf("with prior valid notice (%s days)", prior))
	}

	switch {
	case chars.IsRetroactive:
		parts = append(parts, "recorded retroactively (after hearing occurred)")
	case chars.IsSameDay:
		parts = append(parts, "announced same day as hearing")
	}

	if chars.HadSameDayTimeChange {
		parts = append(parts, "with same-day time change")
	}
	if chars.TextContainsVirtual {
		parts = append(parts, "adding virtual option")
	}

	parts = append(parts,
		"Consistently classified as clerical correction rather than violation based on domain expert review")

	return strings.Join(parts, ". ") + "."
}

func combinedNotes(reviewed []*aggregate.CaseDoc) string {
	var notes []string
	for _, c := range reviewed {
		if c.ReviewStatus.ReviewerNotes != "" {
			notes = append(notes, c.ReviewStatus.ReviewerNotes)
		}
		if len(notes) == 3 {
			break
		}
	}
	return strings.Join(notes, " | ")
}

func exampleBills(reviewed []*aggregate.CaseDoc) []string {
	limit := 5
	if len(reviewed) < limit {
		limit = len(reviewed)
	}
	bills := make([]string, 0, limit)
	for _, c := range reviewed[:limit] {
		bills = append(bills, c.BillID)
	}
	return bills
}

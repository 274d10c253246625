package pattern

import (
	"fmt"

	"github.com/example/noticewatch/internal/core/notice"
)

// Matching thresholds. The suggestion cutoff is fixed: patterns at or
// above it but below the whitelist threshold are surfaced to the
// reviewer as a hint instead of auto-classifying the case.
const (
	DefaultMinConfidence = 0.85
	SuggestionThreshold  = 0.75
)

// Status is the outcome of evaluating a notice against the store.
type Status int

const (
	// StatusNoMatch means no enabled pattern matched at any threshold.
	StatusNoMatch Status = iota
	// StatusSuggested means a pattern matched above the suggestion
	// threshold but below the whitelist threshold.
	StatusSuggested
	// StatusWhitelisted means the case is auto-classified clerical.
	StatusWhitelisted
)

// String names the status for display and logs.
func (s Status) String() string {
	switch s {
	case StatusWhitelisted:
		return "whitelisted"
	case StatusSuggested:
		return "suggested"
	default:
		return "no_match"
	}
}

// Outcome is the structured result of whitelist evaluation.
type Outcome struct {
	Status    Status
	PatternID string
}

// Whitelisted reports whether the case skips human review.
func (o Outcome) Whitelisted() bool {
	return o.Status == StatusWhitelisted
}

// LegacyPatternID returns the serialized form stored on the notice
// record: the pattern id when whitelisted, "suggested_clerical:<id>"
// for suggestions, and "" otherwise.
func (o Outcome) LegacyPatternID() string {
	switch o.Status {
	case StatusWhitelisted:
		return o.PatternID
	case StatusSuggested:
		return fmt.Sprintf("suggested_clerical:%s", o.PatternID)
	default:
		return ""
	}
}

// Evaluate checks a notice against the patterns in their stored order
// (confidence-descending from the last save). The first matching
// enabled pattern wins; no scoring across multiple matches. The
// notice's signature is computed and cached on the record as a side
// effect so downstream consumers reuse it.
func Evaluate(n *notice.Notice, patterns []Pattern, minConfidence float64) Outcome {
	sig := n.EnsureSignature()

	for i := range patterns {
		p := &patterns[i]
		if !p.Enabled {
			continue
		}
		if !p.Matches(sig) {
			continue
		}
		if p.Confidence >= minConfidence {
			return Outcome{Status: StatusWhitelisted, PatternID: p.ID}
		}
		if p.Confidence >= SuggestionThreshold {
			// Below the whitelist bar but worth surfacing; stop at the
			// first such match.
			return Outcome{Status: StatusSuggested, PatternID: p.ID}
		}
	}

	return Outcome{Status: StatusNoMatch}
}

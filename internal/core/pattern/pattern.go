// Package pattern contains the clerical-pattern schema and the
// whitelist matching logic. Patterns are classification rules learned
// from human review; matching them against a notice signature decides
// whether a case can skip review.
package pattern

import (
	"encoding/json"
	"fmt"

	"github.com/example/noticewatch/internal/core/notice"
)

// CriterionKind discriminates the criterion variants.
type CriterionKind int

const (
	// KindExact requires the signature value to equal a scalar.
	KindExact CriterionKind = iota
	// KindOneOf requires the signature value to be in a fixed set.
	KindOneOf
	// KindRange requires a numeric value within optional min/max bounds.
	KindRange
)

// Criterion is one predicate over a single signature field. The JSON
// form is shape-tagged for compatibility with existing pattern config
// files: a scalar means exact match, an array means set inclusion, and
// an object with "min"/"max" means a numeric range.
type Criterion struct {
	Kind   CriterionKind
	Value  any      // KindExact
	Values []any    // KindOneOf
	Min    *float64 // KindRange, nil = unbounded below
	Max    *float64 // KindRange, nil = unbounded above
}

// Exact builds an exact-match criterion.
func Exact(value any) Criterion {
	return Criterion{Kind: KindExact, Value: value}
}

// OneOf builds a set-inclusion criterion.
func OneOf(values ...any) Criterion {
	return Criterion{Kind: KindOneOf, Values: values}
}

// Range builds a numeric range criterion. Either bound may be nil.
func Range(min, max *float64) Criterion {
	return Criterion{Kind: KindRange, Min: min, Max: max}
}

// RangeMin builds a range bounded only from below.
func RangeMin(min float64) Criterion {
	return Criterion{Kind: KindRange, Min: &min}
}

// RangeBetween builds a range bounded on both sides.
func RangeBetween(min, max float64) Criterion {
	return Criterion{Kind: KindRange, Min: &min, Max: &max}
}

type rangeDoc struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// MarshalJSON encodes the criterion in its legacy shape.
func (c Criterion) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindExact:
		return json.Marshal(c.Value)
	case KindOneOf:
		if c.Values == nil {
			return json.Marshal([]any{})
		}
		return json.Marshal(c.Values)
	case KindRange:
		return json.Marshal(rangeDoc{Min: c.Min, Max: c.Max})
	default:
		return nil, fmt.Errorf("unknown criterion kind %d", c.Kind)
	}
}

// UnmarshalJSON decodes a criterion by JSON shape.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	trimmed := firstNonSpace(data)
	switch trimmed {
	case '{':
		var doc rangeDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*c = Criterion{Kind: KindRange, Min: doc.Min, Max: doc.Max}
	case '[':
		var values []any
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*c = Criterion{Kind: KindOneOf, Values: values}
	default:
		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*c = Criterion{Kind: KindExact, Value: value}
	}
	return nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}

// Matches checks a single signature value against the criterion.
func (c Criterion) Matches(value any) bool {
	switch c.Kind {
	case KindExact:
		return scalarEqual(value, c.Value)
	case KindOneOf:
		for _, candidate := range c.Values {
			if scalarEqual(value, candidate) {
				return true
			}
		}
		return false
	case KindRange:
		f, ok := toFloat(value)
		if !ok {
			return false
		}
		if c.Min != nil && f < *c.Min {
			return false
		}
		if c.Max != nil && f > *c.Max {
			return false
		}
		return true
	default:
		return false
	}
}

// scalarEqual compares signature and criterion values, treating all
// numeric types as equivalent (JSON decoding produces float64).
func scalarEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// Pattern is a confidence-scored classification rule learned from
// reviewed cases.
type Pattern struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	SampleSize int     `json:"sample_size"`
	Enabled    bool    `json:"enabled"`

	Criteria      map[string]Criterion `json:"criteria"`
	Description   string               `json:"description"`
	ReviewerNotes string               `json:"reviewer_notes"`
	ExampleBills  []string             `json:"example_bills"`
}

// Matches reports whether a signature satisfies every criterion. A
// criterion whose key is missing from the signature fails the whole
// pattern (fail closed).
func (p *Pattern) Matches(sig *notice.Signature) bool {
	for key, criterion := range p.Criteria {
		value, ok := sig.Field(key)
		if !ok {
			return false
		}
		if !criterion.Matches(value) {
			return false
		}
	}
	return true
}

// ApplicationRules are the global thresholds persisted alongside the
// patterns in the store config.
type ApplicationRules struct {
	MinimumConfidence       float64 `json:"minimum_confidence"`
	RequirePriorValidNotice bool    `json:"require_prior_valid_notice"`
	MaxRetroactiveDays      int     `json:"max_retroactive_days"`
	HumanReviewThreshold    float64 `json:"human_review_threshold"`
}

// DefaultApplicationRules returns the standard thresholds.
func DefaultApplicationRules() ApplicationRules {
	return ApplicationRules{
		MinimumConfidence:       DefaultMinConfidence,
		RequirePriorValidNotice: true,
		MaxRetroactiveDays:      7,
		HumanReviewThreshold:    SuggestionThreshold,
	}
}

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/noticewatch/internal/core/pattern"
)

func retroactivePattern(id string, confidence float64) pattern.Pattern {
	return pattern.Pattern{
		ID:         id,
		Name:       "retroactive reschedule with prior notice",
		Confidence: confidence,
		SampleSize: 6,
		Enabled:    true,
		Criteria: map[string]pattern.Criterion{
			"notice_days": pattern.RangeBetween(-2, 0),
			"action_type": pattern.OneOf("HEARING_RESCHEDULED"),
		},
	}
}

func TestScreenWhitelistsMatchingNotice(t *testing.T) {
	store := &mockPatternStore{patterns: []pattern.Pattern{retroactivePattern("pattern_001", 0.95)}}
	log := &mockNoticeLog{}
	svc := NewScreenService(store, log, testLogger())

	n := suspiciousNotice("S1249", -1)
	outcome, err := svc.Screen(context.Background(), n, 0.85)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}

	if !outcome.Whitelisted() {
		t.Fatalf("expected whitelist, got %v", outcome.Status)
	}
	if outcome.PatternID != "pattern_001" {
		t.Errorf("PatternID = %s, want pattern_001", outcome.PatternID)
	}
	if n.WhitelistPatternID != "pattern_001" {
		t.Errorf("notice not stamped: %q", n.WhitelistPatternID)
	}
	if len(log.notices) != 1 {
		t.Fatalf("notice not logged")
	}
	if log.notices[0].Signature == nil {
		t.Errorf("logged notice missing cached signature")
	}
}

func TestScreenSuggestsBelowWhitelistBar(t *testing.T) {
	store := &mockPatternStore{patterns: []pattern.Pattern{retroactivePattern("pattern_002", 0.80)}}
	svc := NewScreenService(store, &mockNoticeLog{}, testLogger())

	n := suspiciousNotice("S1249", -1)
	outcome, err := svc.Screen(context.Background(), n, 0.85)
	if err != nil {
		t.Fatal(err)
	}

	if outcome.Status != pattern.StatusSuggested {
		t.Fatalf("expected suggestion, got %v", outcome.Status)
	}
	if !strings.HasPrefix(n.WhitelistPatternID, "suggested_clerical:") {
		t.Errorf("suggested stamp = %q", n.WhitelistPatternID)
	}
}

func TestScreenNoMatchStillLogs(t *testing.T) {
	log := &mockNoticeLog{}
	svc := NewScreenService(&mockPatternStore{}, log, testLogger())

	n := suspiciousNotice("S1249", -1)
	outcome, err := svc.Screen(context.Background(), n, 0.85)
	if err != nil {
		t.Fatal(err)
	}

	if outcome.Status != pattern.StatusNoMatch {
		t.Fatalf("expected no match, got %v", outcome.Status)
	}
	if n.WhitelistPatternID != "" {
		t.Errorf("unexpected stamp %q", n.WhitelistPatternID)
	}
	if len(log.notices) != 1 {
		t.Errorf("unmatched notice must still be logged")
	}
}

func TestScreenRejectsInconsistentNotice(t *testing.T) {
	svc := NewScreenService(&mockPatternStore{}, &mockNoticeLog{}, testLogger())

	n := suspiciousNotice("S1249", -1)
	n.NoticeDays = 3 // contradicts the date pair
	if _, err := svc.Screen(context.Background(), n, 0.85); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestScreenStampsDetectionTime(t *testing.T) {
	svc := NewScreenService(&mockPatternStore{}, &mockNoticeLog{}, testLogger())

	n := suspiciousNotice("S1249", -1)
	n.DetectedAt = time.Time{}
	if _, err := svc.Screen(context.Background(), n, 0.85); err != nil {
		t.Fatal(err)
	}
	if n.DetectedAt.IsZero() {
		t.Error("DetectedAt not stamped")
	}
}

package jsonl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/review"
)

func testNotice(billID string) *notice.Notice {
	return &notice.Notice{
		BillID:               billID,
		CommitteeID:          "J19",
		Session:              "194",
		BillURL:              "https://example.com/" + billID,
		AnnouncementDate:     notice.NewDate(2025, time.November, 26),
		ScheduledHearingDate: notice.NewDate(2025, time.November, 25),
		NoticeDays:           -1,
		ActionType:           notice.ActionHearingRescheduled,
		RawActionText:        "Hearing rescheduled",
		DetectedAt:           time.Date(2025, time.November, 26, 15, 0, 0, 0, time.UTC),
	}
}

func TestNoticeLogAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	log := NewNoticeLog(path, nil)
	ctx := context.Background()

	log.Append(ctx, testNotice("S1249"))

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file missing after append: %v", err)
	}

	loaded, err := log.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d notices, want 1", len(loaded))
	}
	if loaded[0].BillID != "S1249" || loaded[0].NoticeDays != -1 {
		t.Errorf("loaded notice = %s/%d, want S1249/-1", loaded[0].BillID, loaded[0].NoticeDays)
	}
}

func TestNoticeLogAppendsMultiple(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	log := NewNoticeLog(path, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		log.Append(ctx, testNotice(fmt.Sprintf("H%d", i)))
	}

	loaded, err := log.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(loaded) != 5 {
		t.Fatalf("loaded %d notices, want 5", len(loaded))
	}
	for i, n := range loaded {
		if want := fmt.Sprintf("H%d", i); n.BillID != want {
			t.Errorf("notice %d bill = %q, want %q (append order must be preserved)", i, n.BillID, want)
		}
	}
}

func TestNoticeLogSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	log := NewNoticeLog(path, nil)
	ctx := context.Background()

	log.Append(ctx, testNotice("H1"))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not valid json\n\n   \n")
	f.Close()
	log.Append(ctx, testNotice("H2"))

	loaded, err := log.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d notices, want 2 (corrupt and blank lines skipped)", len(loaded))
	}
	if loaded[0].BillID != "H1" || loaded[1].BillID != "H2" {
		t.Errorf("loaded bills = %s, %s; want H1, H2", loaded[0].BillID, loaded[1].BillID)
	}
}

func TestNoticeLogMissingFile(t *testing.T) {
	log := NewNoticeLog(filepath.Join(t.TempDir(), "missing.jsonl"), nil)

	loaded, err := log.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll on missing file errored: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d notices from a missing file", len(loaded))
	}
}

func TestNoticeLogClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	log := NewNoticeLog(path, nil)
	ctx := context.Background()

	log.Append(ctx, testNotice("H1"))
	if err := log.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("log file still exists after Clear")
	}

	// Clearing an already-missing log is fine.
	if err := log.Clear(ctx); err != nil {
		t.Errorf("Clear on missing file errored: %v", err)
	}
}

func TestNoticeLogRoundTripPreservesSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notices.jsonl")
	log := NewNoticeLog(path, nil)
	ctx := context.Background()

	n := testNotice("H9")
	n.EnsureSignature()
	log.Append(ctx, n)

	loaded, err := log.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if loaded[0].Signature == nil {
		t.Fatal("signature lost in round trip")
	}
	if loaded[0].Signature.CompositeKey != n.Signature.CompositeKey {
		t.Errorf("composite key = %q, want %q",
			loaded[0].Signature.CompositeKey, n.Signature.CompositeKey)
	}
}

func TestDecisionLogAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.jsonl")
	log := NewDecisionLog(path, nil)
	ctx := context.Background()

	d := review.Decision{
		BillID:        "S1249",
		Determination: review.DeterminationClerical,
		Notes:         "same-day time fix",
		Reviewer:      "analyst",
		Timestamp:     time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := log.Append(ctx, d); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := log.Append(ctx, review.Decision{
		BillID:        "H2391",
		Determination: review.DeterminationViolation,
		Reviewer:      "analyst",
		Timestamp:     d.Timestamp,
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	loaded, err := log.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d decisions, want 2", len(loaded))
	}
	if loaded[0].BillID != "S1249" || loaded[0].Determination != review.DeterminationClerical {
		t.Errorf("first decision = %+v", loaded[0])
	}
	if loaded[0].Notes != "same-day time fix" {
		t.Errorf("Notes = %q, want the original notes", loaded[0].Notes)
	}
	if !loaded[0].Timestamp.Equal(d.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", loaded[0].Timestamp, d.Timestamp)
	}
}

func TestDecisionLogMissingFile(t *testing.T) {
	log := NewDecisionLog(filepath.Join(t.TempDir(), "missing.jsonl"), nil)

	loaded, err := log.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll on missing file errored: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d decisions from a missing file", len(loaded))
	}
}

package review

import (
	"testing"
	"time"

	"github.com/example/noticewatch/internal/core/aggregate"
)

func pendingCase(billID string) *aggregate.CaseDoc {
	return &aggregate.CaseDoc{
		BillID:       billID,
		CommitteeID:  "J19",
		ReviewStatus: aggregate.ReviewStatus{Determination: aggregate.DeterminationPending},
	}
}

func testDataset() *aggregate.Dataset {
	return &aggregate.Dataset{
		Metadata: aggregate.Metadata{
			TotalCases:      5,
			UnreviewedCount: 5,
		},
		Groups: []*aggregate.GroupDoc{
			{
				SignatureID: "group_a",
				CaseCount:   3,
				Cases: []*aggregate.CaseDoc{
					pendingCase("H1"),
					pendingCase("H2"),
					pendingCase("H3"),
				},
			},
			{
				SignatureID: "group_b",
				CaseCount:   2,
				Cases: []*aggregate.CaseDoc{
					pendingCase("S1"),
					pendingCase("S2"),
				},
			},
		},
	}
}

var decidedAt = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

func TestSessionWalksCases(t *testing.T) {
	s := NewSession(testDataset(), "analyst")

	c, g, ok := s.Current()
	if !ok {
		t.Fatal("Current() found no case in a dataset with pending work")
	}
	if c.BillID != "H1" || g.SignatureID != "group_a" {
		t.Errorf("first case = %s in %s, want H1 in group_a", c.BillID, g.SignatureID)
	}

	d, ok := s.Decide(DeterminationClerical, "", decidedAt)
	if !ok {
		t.Fatal("Decide failed with a current case available")
	}
	if d.BillID != "H1" || d.Determination != DeterminationClerical {
		t.Errorf("decision = %+v, want clerical H1", d)
	}
	if d.Reviewer != "analyst" {
		t.Errorf("Reviewer = %q, want analyst", d.Reviewer)
	}

	c, _, _ = s.Current()
	if c.BillID != "H2" {
		t.Errorf("after one decision, current = %s, want H2", c.BillID)
	}
}

func TestSessionSkip(t *testing.T) {
	s := NewSession(testDataset(), "analyst")

	s.Skip()
	c, _, _ := s.Current()
	if c.BillID != "H2" {
		t.Errorf("after skip, current = %s, want H2", c.BillID)
	}

	// The skipped case stays pending but is not re-presented this run.
	ds := s.Dataset()
	if got := ds.Groups[0].Cases[0].ReviewStatus.Determination; got != aggregate.DeterminationPending {
		t.Errorf("skipped case determination = %q, want pending", got)
	}
	s.Skip()
	s.Skip()
	c, g, ok := s.Current()
	if !ok || g.SignatureID != "group_b" || c.BillID != "S1" {
		t.Errorf("after skipping group_a, current = %v in %v", c, g)
	}
}

func TestSessionDecideUpdatesCounters(t *testing.T) {
	s := NewSession(testDataset(), "analyst")

	s.Decide(DeterminationViolation, "genuine reschedule", decidedAt)

	ds := s.Dataset()
	if ds.Metadata.ReviewedCount != 1 || ds.Metadata.UnreviewedCount != 4 {
		t.Errorf("counters = %d/%d, want 1 reviewed, 4 unreviewed",
			ds.Metadata.ReviewedCount, ds.Metadata.UnreviewedCount)
	}
	got := ds.Groups[0].Cases[0].ReviewStatus
	if !got.Reviewed || got.Determination != DeterminationViolation {
		t.Errorf("case review status = %+v, want reviewed violation", got)
	}
	if got.ReviewerNotes != "genuine reschedule" {
		t.Errorf("ReviewerNotes = %q, want the decision notes", got.ReviewerNotes)
	}
	g := ds.Groups[0]
	if g.ReviewedCount != 1 || g.ViolationCount != 1 || g.ClericalCount != 0 {
		t.Errorf("group counters = %d/%d/%d, want 1 reviewed, 1 violation",
			g.ReviewedCount, g.ClericalCount, g.ViolationCount)
	}
	if g.ConfidenceScore == nil || *g.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %v, want 0", g.ConfidenceScore)
	}
}

func TestSessionDecideGroup(t *testing.T) {
	ds := testDataset()
	// One case in the group is already reviewed; group apply must not
	// touch it.
	ds.Groups[0].Cases[1].ReviewStatus = aggregate.ReviewStatus{
		Reviewed:      true,
		Determination: DeterminationViolation,
	}
	ds.Metadata.ReviewedCount = 1
	ds.Metadata.UnreviewedCount = 4

	s := NewSession(ds, "analyst")
	decisions := s.DecideGroup(DeterminationClerical, "same pattern", decidedAt)

	if len(decisions) != 2 {
		t.Fatalf("decisions = %d, want 2 (pending cases only)", len(decisions))
	}
	for _, d := range decisions {
		if !d.ApplyToGroup {
			t.Errorf("decision %s missing ApplyToGroup", d.BillID)
		}
		if d.Determination != DeterminationClerical {
			t.Errorf("decision %s determination = %q, want clerical", d.BillID, d.Determination)
		}
	}
	if got := ds.Groups[0].Cases[1].ReviewStatus.Determination; got != DeterminationViolation {
		t.Errorf("already-reviewed case changed to %q", got)
	}
	if ds.Metadata.ReviewedCount != 3 || ds.Metadata.UnreviewedCount != 2 {
		t.Errorf("counters = %d/%d, want 3/2", ds.Metadata.ReviewedCount, ds.Metadata.UnreviewedCount)
	}

	// Group apply advances to the next group.
	c, g, ok := s.Current()
	if !ok || g.SignatureID != "group_b" || c.BillID != "S1" {
		t.Errorf("after group apply, current = %v in %v, want S1 in group_b", c, g)
	}
}

func TestSessionExhaustion(t *testing.T) {
	s := NewSession(testDataset(), "analyst")

	for i := 0; i < 5; i++ {
		if _, ok := s.Decide(DeterminationClerical, "", decidedAt); !ok {
			t.Fatalf("Decide failed at case %d", i)
		}
	}

	if _, _, ok := s.Current(); ok {
		t.Error("Current() returned a case after all were decided")
	}
	if s.HasPending() {
		t.Error("HasPending() = true after exhaustion")
	}
	if _, ok := s.Decide(DeterminationClerical, "", decidedAt); ok {
		t.Error("Decide succeeded with no current case")
	}

	reviewed, total := s.Progress()
	if reviewed != 5 || total != 5 {
		t.Errorf("Progress = %d/%d, want 5/5", reviewed, total)
	}
}

func TestSessionHasPendingIgnoresSkipped(t *testing.T) {
	ds := testDataset()
	ds.Groups = ds.Groups[:1]
	ds.Metadata.TotalCases = 3
	ds.Metadata.UnreviewedCount = 3

	s := NewSession(ds, "analyst")
	s.Skip()
	s.Skip()
	s.Skip()

	if s.HasPending() {
		t.Error("HasPending() = true after skipping every case; skipped cases belong to the next run")
	}
}

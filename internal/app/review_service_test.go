package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/ctxutil"
)

// testDataset builds a two-group dataset with pending cases only.
func testDataset() *aggregate.Dataset {
	makeCase := func(billID string) *aggregate.CaseDoc {
		return &aggregate.CaseDoc{
			BillID:       billID,
			CommitteeID:  "J19",
			ReviewStatus: aggregate.ReviewStatus{Determination: aggregate.DeterminationPending},
		}
	}

	groupA := &aggregate.GroupDoc{
		SignatureID: "retroactive_1_day_HEARING_RESCHEDULED_prior_10plus_days_notimechange",
		CaseCount:   3,
		Cases:       []*aggregate.CaseDoc{makeCase("S1249"), makeCase("S2001"), makeCase("S2002")},
	}
	groupB := &aggregate.GroupDoc{
		SignatureID: "same_day_HEARING_SCHEDULED_prior_none_notimechange",
		CaseCount:   3,
		Cases:       []*aggregate.CaseDoc{makeCase("H0042"), makeCase("H0043"), makeCase("H0044")},
	}

	return &aggregate.Dataset{
		Metadata: aggregate.Metadata{TotalCases: 6, SignatureGroups: 2, UnreviewedCount: 6},
		Groups:   []*aggregate.GroupDoc{groupA, groupB},
	}
}

func TestReviewSessionPersistsEachDecision(t *testing.T) {
	store := &mockDatasetStore{dataset: testDataset()}
	log := &mockDecisionLog{}
	archive := &mockArchive{}
	svc := NewReviewService(store, log, archive, "analyst_a", testLogger())
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if err := session.Decide(ctx, aggregate.DeterminationClerical, "standard correction"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if err := session.Decide(ctx, aggregate.DeterminationViolation, ""); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if len(log.decisions) != 2 {
		t.Fatalf("expected 2 logged decisions, got %d", len(log.decisions))
	}
	if log.decisions[0].BillID != "S1249" || log.decisions[1].BillID != "S2001" {
		t.Errorf("decisions logged out of order: %s, %s",
			log.decisions[0].BillID, log.decisions[1].BillID)
	}
	if log.decisions[0].Reviewer != "analyst_a" {
		t.Errorf("Reviewer = %q, want analyst_a", log.decisions[0].Reviewer)
	}
	if len(archive.recorded) != 2 {
		t.Errorf("expected 2 archived decisions, got %d", len(archive.recorded))
	}
}

func TestReviewSessionDecideGroup(t *testing.T) {
	store := &mockDatasetStore{dataset: testDataset()}
	log := &mockDecisionLog{}
	svc := NewReviewService(store, log, nil, "analyst_a", testLogger())
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}

	n, err := session.DecideGroup(ctx, aggregate.DeterminationClerical, "batch call")
	if err != nil {
		t.Fatalf("DecideGroup failed: %v", err)
	}
	if n != 3 {
		t.Errorf("DecideGroup applied to %d cases, want 3", n)
	}
	for _, d := range log.decisions {
		if !d.ApplyToGroup {
			t.Errorf("decision for %s missing apply_to_group", d.BillID)
		}
	}

	// Session should have moved on to the second group.
	c, _, ok := session.Current()
	if !ok || c.BillID != "H0042" {
		t.Errorf("expected next case H0042, got %+v ok=%v", c, ok)
	}
}

func TestReviewSessionDecideLogFailure(t *testing.T) {
	store := &mockDatasetStore{dataset: testDataset()}
	log := &mockDecisionLog{appendErr: errors.New("disk full")}
	svc := NewReviewService(store, log, nil, "analyst_a", testLogger())
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Decide(ctx, aggregate.DeterminationClerical, ""); err == nil {
		t.Fatal("expected error when decision log write fails")
	}
}

func TestReviewSessionArchiveFaultDoesNotInterrupt(t *testing.T) {
	store := &mockDatasetStore{dataset: testDataset()}
	log := &mockDecisionLog{}
	archive := &mockArchive{recordErr: errors.New("archive locked")}
	svc := NewReviewService(store, log, archive, "analyst_a", testLogger())
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Decide(ctx, aggregate.DeterminationClerical, ""); err != nil {
		t.Fatalf("Decide should tolerate archive faults, got %v", err)
	}
	if len(log.decisions) != 1 {
		t.Errorf("decision not logged despite archive fault")
	}
}

func TestReviewSessionFinishSavesDataset(t *testing.T) {
	store := &mockDatasetStore{dataset: testDataset()}
	svc := NewReviewService(store, &mockDecisionLog{}, nil, "analyst_a", testLogger())
	ctx := context.Background()

	session, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Decide(ctx, aggregate.DeterminationClerical, ""); err != nil {
		t.Fatal(err)
	}
	if err := session.Finish(ctx); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	if store.saveCount != 1 {
		t.Fatalf("expected 1 dataset save, got %d", store.saveCount)
	}
	first := store.dataset.Groups[0].Cases[0]
	if !first.ReviewStatus.Reviewed || first.ReviewStatus.Determination != aggregate.DeterminationClerical {
		t.Errorf("saved dataset missing review state: %+v", first.ReviewStatus)
	}
}

func TestReviewSessionReviewerFromContext(t *testing.T) {
	store := &mockDatasetStore{dataset: testDataset()}
	log := &mockDecisionLog{}
	svc := NewReviewService(store, log, nil, "default_analyst", testLogger())
	ctx := ctxutil.WithReviewer(context.Background(), "analyst_override")

	session, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Decide(ctx, aggregate.DeterminationClerical, ""); err != nil {
		t.Fatal(err)
	}
	if log.decisions[0].Reviewer != "analyst_override" {
		t.Errorf("Reviewer = %q, want analyst_override", log.decisions[0].Reviewer)
	}
}

func TestStartSessionMissingDataset(t *testing.T) {
	store := &mockDatasetStore{loadErr: errors.New("review dataset not found")}
	svc := NewReviewService(store, &mockDecisionLog{}, nil, "analyst_a", testLogger())

	if _, err := svc.StartSession(context.Background()); err == nil {
		t.Fatal("expected error when dataset is missing")
	}
}

func TestStartSessionPreservesNotExist(t *testing.T) {
	// The CLI distinguishes a missing dataset from other load failures
	// with errors.Is, so the sentinel must survive the service's wrap.
	store := &mockDatasetStore{
		loadErr: fmt.Errorf("review dataset not found at out/pending.json: %w", os.ErrNotExist),
	}
	svc := NewReviewService(store, &mockDecisionLog{}, nil, "analyst_a", testLogger())

	_, err := svc.StartSession(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("StartSession error = %v, want os.ErrNotExist in the chain", err)
	}
}

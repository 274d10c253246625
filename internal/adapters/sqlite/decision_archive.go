// Package sqlite contains the SQLite implementation of the decision
// archive. The archive is a derived index over the completed-reviews
// log; it can be dropped and rebuilt at any time.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/core/notice"
	"github.com/example/noticewatch/internal/core/review"
	"github.com/example/noticewatch/internal/ports/secondary"
)

// DecisionArchive implements secondary.DecisionArchive with SQLite.
type DecisionArchive struct {
	db *sql.DB
}

// NewDecisionArchive creates an archive over an open database.
func NewDecisionArchive(db *sql.DB) *DecisionArchive {
	return &DecisionArchive{db: db}
}

// Rebuild resets the archive and re-indexes every decision. Committee
// ids are joined in from the notice log by bill id where available.
func (a *DecisionArchive) Rebuild(ctx context.Context, decisions []review.Decision, notices []*notice.Notice) error {
	committees := make(map[string]string, len(notices))
	for _, n := range notices {
		if n.CommitteeID != "" {
			committees[n.BillID] = n.CommitteeID
		}
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM decisions"); err != nil {
		return fmt.Errorf("failed to reset archive: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO decisions (bill_id, determination, notes, apply_to_group, reviewer, committee_id, decided_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range decisions {
		var committeeID sql.NullString
		if id, ok := committees[d.BillID]; ok {
			committeeID = sql.NullString{String: id, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			d.BillID, d.Determination, d.Notes, d.ApplyToGroup, d.Reviewer, committeeID, d.Timestamp,
		); err != nil {
			return fmt.Errorf("failed to index decision for %s: %w", d.BillID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}
	return nil
}

// Record indexes one decision as it is made. Committee context is not
// available mid-session, so the column is left null until the next
// rebuild fills it in.
func (a *DecisionArchive) Record(ctx context.Context, d review.Decision) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO decisions (bill_id, determination, notes, apply_to_group, reviewer, decided_at) VALUES (?, ?, ?, ?, ?, ?)",
		d.BillID, d.Determination, d.Notes, d.ApplyToGroup, d.Reviewer, d.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// Stats aggregates the indexed decisions.
func (a *DecisionArchive) Stats(ctx context.Context) (*secondary.ArchiveStats, error) {
	stats := &secondary.ArchiveStats{}

	err := a.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN determination = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN determination = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(apply_to_group), 0),
			COUNT(DISTINCT bill_id)
		FROM decisions`,
		aggregate.DeterminationClerical, aggregate.DeterminationViolation,
	).Scan(&stats.TotalDecisions, &stats.ClericalCount, &stats.ViolationCount, &stats.GroupApplied, &stats.DistinctBills)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate decisions: %w", err)
	}

	rows, err := a.db.QueryContext(ctx,
		"SELECT reviewer, COUNT(*) FROM decisions GROUP BY reviewer ORDER BY COUNT(*) DESC, reviewer",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tally reviewers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rc secondary.ReviewerCount
		if err := rows.Scan(&rc.Reviewer, &rc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan reviewer tally: %w", err)
		}
		stats.ByReviewer = append(stats.ByReviewer, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviewer tallies: %w", err)
	}

	committeeRows, err := a.db.QueryContext(ctx, `
		SELECT committee_id, COUNT(*),
			SUM(CASE WHEN determination = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN determination = ? THEN 1 ELSE 0 END)
		FROM decisions
		WHERE committee_id IS NOT NULL
		GROUP BY committee_id
		ORDER BY COUNT(*) DESC, committee_id`,
		aggregate.DeterminationClerical, aggregate.DeterminationViolation,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tally committees: %w", err)
	}
	defer committeeRows.Close()
	for committeeRows.Next() {
		var cc secondary.CommitteeCount
		if err := committeeRows.Scan(&cc.CommitteeID, &cc.Count, &cc.ClericalCount, &cc.ViolationCount); err != nil {
			return nil, fmt.Errorf("failed to scan committee tally: %w", err)
		}
		stats.ByCommittee = append(stats.ByCommittee, cc)
	}
	if err := committeeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read committee tallies: %w", err)
	}

	return stats, nil
}

// Close releases the underlying database handle.
func (a *DecisionArchive) Close() error {
	return a.db.Close()
}

// Ensure DecisionArchive implements the interface
var _ secondary.DecisionArchive = (*DecisionArchive)(nil)

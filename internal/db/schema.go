package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for the decision archive. The
// archive holds one row per review decision and is rebuilt from the
// completed-reviews log, so there is no migration history: drop the
// database file and rerun stats to get it back.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS decisions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bill_id TEXT NOT NULL,
	determination TEXT NOT NULL CHECK(determination IN ('clerical', 'violation')),
	notes TEXT,
	apply_to_group INTEGER NOT NULL DEFAULT 0,
	reviewer TEXT NOT NULL,
	committee_id TEXT,
	decided_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_bill ON decisions(bill_id);
CREATE INDEX IF NOT EXISTS idx_decisions_reviewer ON decisions(reviewer);
CREATE INDEX IF NOT EXISTS idx_decisions_committee ON decisions(committee_id);
`

// InitSchema creates the archive tables if they do not exist.
func InitSchema(database *sql.DB) error {
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

package archive

import (
	"context"
	"database/sql"
	"fmt"
)

// createSchema creates the outcome table. Safe to call multiple times.
func createSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS outcome (
    run_id TEXT PRIMARY KEY,
    method TEXT NOT NULL,
    seats INTEGER NOT NULL,
    inputs_hash TEXT NOT NULL,
    winners TEXT NOT NULL,
    payload BLOB NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcome_inputs_hash ON outcome(inputs_hash);
`

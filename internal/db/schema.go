package db

// SchemaSQL is the single source of truth for the run-history schema.
// Tests run against this same definition via GetSchemaSQL.
const SchemaSQL = `
-- Executor run history. The manifest stays the per-item audit record;
-- this ledger answers "what ran when" across batches.
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	manifest_path TEXT NOT NULL,
	mode TEXT NOT NULL CHECK(mode IN ('dry_run', 'live')),
	outcome TEXT NOT NULL CHECK(outcome IN ('ok', 'partial_failure')),
	applied INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	dry_run_ok INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_manifest ON runs(manifest_path);
`

// GetSchemaSQL returns the authoritative schema for fresh installs and tests.
func GetSchemaSQL() string {
	return SchemaSQL
}

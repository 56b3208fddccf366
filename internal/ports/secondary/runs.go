package secondary

import "context"

// RunRecord is one executor run as stored in the history ledger.
type RunRecord struct {
	ID           string
	ManifestPath string
	Mode         string // "dry_run" or "live"
	Outcome      string // "ok", "partial_failure"
	Applied      int
	Failed       int
	Skipped      int
	DryRunOK     int
	StartedAt    string
	FinishedAt   string
}

// RunRepository persists executor run summaries. The manifest remains the
// authoritative per-item audit record; the ledger answers "what ran when"
// across batches.
type RunRepository interface {
	GetNextID(ctx context.Context) (string, error)
	Create(ctx context.Context, rec *RunRecord) error
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}

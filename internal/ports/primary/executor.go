package primary

import "context"

// Execution modes
const (
	ModeDryRun = "dry_run"
	ModeLive   = "live"
)

// ExecuteRequest carries the inputs for one executor run.
type ExecuteRequest struct {
	ManifestPath string
	Mode         string // ModeDryRun or ModeLive
	// Preview, in dry-run mode, issues the non-mutating query for each item
	// to show current on-hand state. Never touches the mutating endpoint.
	Preview bool
}

// ItemOutcome is one work item's result within a run, for progress display.
type ItemOutcome struct {
	ID      string
	Status  string
	Skipped bool
	Error   string
	OnHand  string // preview only: current on-hand quantity, if queried
}

// ExecuteSummary reports the counts of a completed run. PartialFailure is
// set when processing finished but at least one item failed.
type ExecuteSummary struct {
	Mode           string
	Applied        int
	Failed         int
	Skipped        int
	DryRunOK       int
	PartialFailure bool
	Outcomes       []ItemOutcome
}

// ExecutorService replays a manifest's work items against the SDK transport.
// Items already applied are always skipped; per-item transport failures are
// recorded and never abort the batch; the manifest is persisted after every
// item's outcome.
type ExecutorService interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteSummary, error)
}

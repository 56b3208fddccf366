package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/jbatch/internal/adapters/filestore"
	"github.com/example/jbatch/internal/adapters/jbxml"
	"github.com/example/jbatch/internal/lock"
	"github.com/example/jbatch/internal/models"
	"github.com/example/jbatch/internal/ports/primary"
	"github.com/example/jbatch/internal/ports/secondary"
)

// ExecutorServiceImpl implements the ExecutorService interface.
type ExecutorServiceImpl struct {
	transport secondary.Transport
	runs      secondary.RunRepository // optional, nil disables the ledger
	timeout   time.Duration
	now       func() time.Time
}

var _ primary.ExecutorService = (*ExecutorServiceImpl)(nil)

// NewExecutorService creates a new ExecutorService. transport may be nil for
// dry runs without preview; timeout bounds each transport round-trip.
func NewExecutorService(transport secondary.Transport, runs secondary.RunRepository, timeout time.Duration) *ExecutorServiceImpl {
	return &ExecutorServiceImpl{
		transport: transport,
		runs:      runs,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Execute replays the manifest's work items in stored order.
//
// The run obeys three rules that make interrupted batches safe to retry:
// items already applied are never resubmitted; a single item's transport
// failure never aborts the batch; and the manifest is persisted after every
// item's outcome before the next item begins.
func (s *ExecutorServiceImpl) Execute(ctx context.Context, req primary.ExecuteRequest) (*primary.ExecuteSummary, error) {
	if req.Mode != primary.ModeDryRun && req.Mode != primary.ModeLive {
		return nil, &models.ValidationError{Subject: "mode", Reason: fmt.Sprintf("unknown mode %q", req.Mode)}
	}
	if req.Mode == primary.ModeLive && s.transport == nil {
		return nil, fmt.Errorf("live mode requires a transport")
	}
	if req.Preview && s.transport == nil {
		return nil, fmt.Errorf("preview requires a transport")
	}

	manifest, err := filestore.LoadManifest(req.ManifestPath)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	lk := lock.New(req.ManifestPath)
	if err := lk.Acquire(); err != nil {
		return nil, err
	}
	defer lk.Release()

	baseDir := filepath.Dir(req.ManifestPath)
	started := s.now().UTC()
	summary := &primary.ExecuteSummary{Mode: req.Mode}

	for i := range manifest.Items {
		// Operator interrupt: the previous item's outcome is already
		// persisted, stop cleanly before starting another.
		if ctx.Err() != nil {
			break
		}

		item := &manifest.Items[i]
		if item.Status == models.StatusApplied {
			summary.Skipped++
			summary.Outcomes = append(summary.Outcomes, primary.ItemOutcome{ID: item.ID, Status: item.Status, Skipped: true})
			continue
		}

		var outcome primary.ItemOutcome
		if req.Mode == primary.ModeDryRun {
			outcome = s.dryRunItem(ctx, baseDir, item, req.Preview)
		} else {
			outcome = s.liveItem(ctx, baseDir, item)
		}

		switch item.Status {
		case models.StatusApplied:
			summary.Applied++
		case models.StatusDryRunOK:
			summary.DryRunOK++
		case models.StatusFailed:
			summary.Failed++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)

		// Write-then-advance: a manifest that cannot be persisted is fatal,
		// the audit trail must never run ahead of reality.
		if err := filestore.SaveManifest(req.ManifestPath, manifest); err != nil {
			return nil, err
		}
	}

	summary.PartialFailure = summary.Failed > 0

	if s.runs != nil {
		s.recordRun(req, summary, started)
	}
	return summary, nil
}

// dryRunItem validates the update artifact without touching the mutating
// endpoint. With preview enabled it additionally issues the non-mutating
// query to show current on-hand state; a preview failure does not fail the
// item, validation already passed.
func (s *ExecutorServiceImpl) dryRunItem(ctx context.Context, baseDir string, item *models.WorkItem, preview bool) primary.ItemOutcome {
	doc, err := os.ReadFile(filepath.Join(baseDir, item.UpdatePath))
	if err != nil {
		return s.fail(item, fmt.Sprintf("cannot read update document: %v", err))
	}
	if err := jbxml.CheckUpdateDocument(string(doc)); err != nil {
		return s.fail(item, fmt.Sprintf("update document rejected: %v", err))
	}

	item.Status = models.StatusDryRunOK
	item.LastError = ""
	outcome := primary.ItemOutcome{ID: item.ID, Status: item.Status}

	if preview {
		if resp, err := s.query(ctx, baseDir, item); err == nil {
			outcome.OnHand = resp.OnHand
		}
	}
	return outcome
}

// liveItem performs the query/update round-trips for one work item. Clear
// failures are recorded and the batch continues; outcomes the transport
// neither confirmed nor denied get the distinct ambiguous marker so nothing
// retries them automatically.
func (s *ExecutorServiceImpl) liveItem(ctx context.Context, baseDir string, item *models.WorkItem) primary.ItemOutcome {
	doc, err := os.ReadFile(filepath.Join(baseDir, item.UpdatePath))
	if err != nil {
		return s.fail(item, fmt.Sprintf("cannot read update document: %v", err))
	}

	resp, err := s.query(ctx, baseDir, item)
	if err != nil {
		// Nothing was mutated; a query failure is an ordinary per-item error.
		return s.fail(item, err.Error())
	}
	if !resp.OK() {
		return s.fail(item, resp.Message())
	}
	if resp.LastUpdated == "" {
		return s.fail(item, "query response carries no LastUpdated token")
	}

	update := jbxml.ResolveLastUpdated(string(doc), resp.LastUpdated)
	uctx, cancel := context.WithTimeout(ctx, s.timeout)
	raw, err := s.transport.Submit(uctx, update)
	ambiguous := err != nil && (isTimeout(err) || uctx.Err() != nil)
	cancel()
	if err != nil {
		if ambiguous {
			amb := &secondary.AmbiguousOutcomeError{Detail: err.Error()}
			return s.fail(item, amb.Error())
		}
		return s.fail(item, err.Error())
	}

	modResp, err := jbxml.ParseResponse(raw)
	if err != nil {
		// The update was submitted but the answer is unreadable: the
		// adjustment may or may not have landed.
		amb := &secondary.AmbiguousOutcomeError{Detail: err.Error()}
		return s.fail(item, amb.Error())
	}
	if !modResp.OK() {
		return s.fail(item, modResp.Message())
	}

	appliedAt := s.now().UTC()
	item.Status = models.StatusApplied
	item.LastError = ""
	item.AppliedAt = &appliedAt
	return primary.ItemOutcome{ID: item.ID, Status: item.Status, OnHand: modResp.OnHand}
}

// query runs the non-mutating MaterialQueryRq for an item.
func (s *ExecutorServiceImpl) query(ctx context.Context, baseDir string, item *models.WorkItem) (*jbxml.Response, error) {
	doc, err := os.ReadFile(filepath.Join(baseDir, item.QueryPath))
	if err != nil {
		return nil, fmt.Errorf("cannot read query document: %w", err)
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.transport.Submit(qctx, string(doc))
	if err != nil {
		return nil, err
	}
	resp, err := jbxml.ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("unreadable query response: %w", err)
	}
	return resp, nil
}

func (s *ExecutorServiceImpl) fail(item *models.WorkItem, msg string) primary.ItemOutcome {
	item.Status = models.StatusFailed
	item.LastError = msg
	return primary.ItemOutcome{ID: item.ID, Status: item.Status, Error: msg}
}

// recordRun appends the run to the history ledger. Best-effort: the
// manifest already holds the authoritative outcome, a ledger hiccup must
// not turn a finished run into an error.
func (s *ExecutorServiceImpl) recordRun(req primary.ExecuteRequest, summary *primary.ExecuteSummary, started time.Time) {
	ctx := context.Background()
	id, err := s.runs.GetNextID(ctx)
	if err != nil {
		return
	}
	outcome := "ok"
	if summary.PartialFailure {
		outcome = "partial_failure"
	}
	_ = s.runs.Create(ctx, &secondary.RunRecord{
		ID:           id,
		ManifestPath: req.ManifestPath,
		Mode:         req.Mode,
		Outcome:      outcome,
		Applied:      summary.Applied,
		Failed:       summary.Failed,
		Skipped:      summary.Skipped,
		DryRunOK:     summary.DryRunOK,
		StartedAt:    started.Format(time.RFC3339),
		FinishedAt:   s.now().UTC().Format(time.RFC3339),
	})
}

// isTimeout reports whether a transport failure was a timeout. A timeout on
// the mutating call leaves the outcome unknown on the server side.
func isTimeout(err error) bool {
	var terr *secondary.TransportError
	return errors.As(err, &terr) && terr.Timeout
}

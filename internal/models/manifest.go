// Package models contains domain types for jbatch entities.
// Persistence lives in internal/adapters/filestore and internal/adapters/sqlite.
package models

import (
	"fmt"
	"time"
)

// ManifestVersion is the current manifest format version. Bump only with a
// migration story: manifests are long-lived audit records.
const ManifestVersion = 1

// ManifestFileName is the well-known manifest file name inside a batch
// output directory.
const ManifestFileName = "manifest.json"

// WorkItem status constants
const (
	StatusPending  = "pending"
	StatusDryRunOK = "dry_run_ok"
	StatusApplied  = "applied"
	StatusFailed   = "failed"
)

// WorkItem is one material identifier's unit of work within a manifest.
// QueryPath and UpdatePath are relative to the manifest's directory and are
// fixed at generation time; only Status, LastError and AppliedAt change
// during execution.
type WorkItem struct {
	ID             string     `json:"id"`
	QueryPath      string     `json:"query_path"`
	UpdatePath     string     `json:"update_path"`
	QuantityChange int        `json:"quantity_change"`
	Status         string     `json:"status"`
	LastError      string     `json:"last_error,omitempty"`
	AppliedAt      *time.Time `json:"applied_at,omitempty"`
}

// Manifest links each material identifier to its generated XML artifacts and
// execution outcome. Items are append-only at creation and never reordered,
// so manifest diffs stay reviewable and execution order is deterministic.
type Manifest struct {
	Version     int        `json:"version"`
	GeneratedAt time.Time  `json:"generated_at"`
	InputFile   string     `json:"input_file"`
	OutputDir   string     `json:"output_dir"`
	ReasonID    string     `json:"reason_id,omitempty"`
	Items       []WorkItem `json:"items"`
}

// Validate checks structural integrity of a loaded manifest.
// A manifest that fails here must never be executed.
func (m *Manifest) Validate() error {
	if m.Version != ManifestVersion {
		return &ValidationError{
			Subject: "manifest",
			Reason:  fmt.Sprintf("unsupported manifest version %d (want %d)", m.Version, ManifestVersion),
		}
	}
	if len(m.Items) == 0 {
		return &ValidationError{Subject: "manifest", Reason: "manifest contains no work items"}
	}
	seen := make(map[string]bool, len(m.Items))
	for i, item := range m.Items {
		if item.ID == "" {
			return &ValidationError{
				Subject: fmt.Sprintf("item %d", i+1),
				Reason:  "missing material identifier",
			}
		}
		if seen[item.ID] {
			return &ValidationError{
				Subject: fmt.Sprintf("item %d (%s)", i+1, item.ID),
				Reason:  "duplicate material identifier",
			}
		}
		seen[item.ID] = true
		if item.QueryPath == "" || item.UpdatePath == "" {
			return &ValidationError{
				Subject: fmt.Sprintf("item %d (%s)", i+1, item.ID),
				Reason:  "missing artifact path",
			}
		}
		switch item.Status {
		case StatusPending, StatusDryRunOK, StatusApplied, StatusFailed:
		default:
			return &ValidationError{
				Subject: fmt.Sprintf("item %d (%s)", i+1, item.ID),
				Reason:  fmt.Sprintf("unknown status %q", item.Status),
			}
		}
	}
	return nil
}

// CountByStatus returns the number of items per status.
func (m *Manifest) CountByStatus() map[string]int {
	counts := make(map[string]int, 4)
	for _, item := range m.Items {
		counts[item.Status]++
	}
	return counts
}

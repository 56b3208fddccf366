// Package primary defines the service interfaces driven by the CLI.
package primary

import "context"

// GenerateRequest carries the inputs for one generation run.
type GenerateRequest struct {
	InputPath string
	OutputDir string
	ReasonID  string
	// Quantity is the signed on-hand adjustment written into every update
	// document and must be non-zero. Deriving per-material quantities from
	// business rules is out of scope; the CLI defaults to -1, removing one
	// piece per identifier.
	Quantity  int
	Overwrite bool
}

// GeneratedItem describes one identifier's artifact pair.
type GeneratedItem struct {
	ID         string
	QueryPath  string
	UpdatePath string
}

// GenerateResponse reports what a generation run produced.
type GenerateResponse struct {
	ManifestPath string
	Items        []GeneratedItem
}

// GeneratorService turns a reviewed input list into a batch of XML artifact
// pairs plus a manifest, every item pending. All failures are fatal and
// leave no manifest behind.
type GeneratorService interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

package models

import "fmt"

// ValidationError reports malformed or duplicate input, or a structurally
// broken manifest. Always fatal to the current operation; raised before any
// artifact is written or mutated.
type ValidationError struct {
	Subject string // what failed: "line 3", "item 2 (10000042)", "manifest"
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Subject, e.Reason)
}

// ConflictError reports an output directory that already holds a manifest.
// Fatal, but operator-recoverable via the overwrite flag rather than by
// automatic retry.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("output conflict: %s already exists (use --overwrite to replace a prior batch)", e.Path)
}

// Package secondary defines outbound interfaces implemented by adapters.
package secondary

import (
	"context"
	"fmt"
)

// Transport is the boundary to the JobBOSS XML SDK. The core depends on
// exactly one capability: hand over an XML request document, get back an XML
// response document or a transport failure. Adapters own sessions,
// credentials and placeholder resolution; the core never sees them.
type Transport interface {
	// Submit sends one XML request and returns the raw XML response.
	// Blocking; bounded by ctx.
	Submit(ctx context.Context, xmlDoc string) (string, error)

	// Close releases the transport's session, if any.
	Close(ctx context.Context) error
}

// TransportError is a per-item failure from the SDK: network trouble, a
// timeout on a non-mutating call, or a clear rejection. It is recorded in
// the work item's last_error and never aborts the batch.
type TransportError struct {
	Message string
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("transport timeout: %s", e.Message)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

// AmbiguousOutcomeError marks a mutating call whose outcome the transport
// neither confirmed nor denied (timeout mid-update, unparseable response).
// The item is failed with this distinct marker so operators reconcile
// manually; automatic resubmission could double-apply the adjustment.
type AmbiguousOutcomeError struct {
	Detail string
}

func (e *AmbiguousOutcomeError) Error() string {
	return fmt.Sprintf("ambiguous outcome, manual reconciliation required: %s", e.Detail)
}

package probe

import (
	"context"
	"time"
)

// CheckResult is the outcome of a single probe.
//
// Reachable is the only field the monitor's state machine looks at. The rest
// is diagnostic:
// - StatusCode: HTTP status when a response arrived; 0 for transport errors.
// - Message: the response status line, or the transport error text.
type CheckResult struct {
	Reachable  bool
	StatusCode int
	LatencyMS  float64
	Message    string
}

// TransportFailure reports whether the probe never got an HTTP response.
func (r CheckResult) TransportFailure() bool {
	return !r.Reachable && r.StatusCode == 0
}

// Checker probes a target URL within timeout. Implementations never return
// an error: every failure collapses into an unreachable result.
type Checker interface {
	Check(ctx context.Context, target string, timeout time.Duration) CheckResult
}

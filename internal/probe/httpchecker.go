package probe

import (
	"context"
	"io"
	"net/http"
	"time"
)

// maxDrain bounds how much of a response body is read before closing, so
// keep-alive connections can be reused without downloading large pages.
const maxDrain = 64 << 10

// defaultTimeout bounds a probe when the caller passes no timeout.
var defaultTimeout = 10 * time.Second

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker returns a checker whose per-request deadline comes from the
// timeout passed to Check rather than from the client.
func NewHTTPChecker() *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{},
	}
}

// Check issues a GET. Any response counts as a completed probe and is
// classified locally: only 2xx is reachable.
func (h *HTTPChecker) Check(ctx context.Context, target string, timeout time.Duration) CheckResult {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Reachable: false, Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Reachable: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	return CheckResult{
		Reachable:  resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		LatencyMS:  latency,
	}
}

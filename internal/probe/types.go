package probe

import "context"

// CheckResult is the outcome of one reachability probe.
//
// Reachable is the only field callers act on. StatusCode is set when an
// HTTP exchange completed (any code counts as reachable); Reason is a
// diagnostic class for logs and stays empty on success.
type CheckResult struct {
	Reachable  bool    `json:"reachable"`
	StatusCode int     `json:"status_code,omitempty"`
	LatencyMS  float64 `json:"latency_ms"`
	Reason     string  `json:"reason,omitempty"`
}

// Checker performs a single bounded check for a target URL.
// Implementations never fail: every error is folded into Reachable=false.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context, target string) CheckResult

func (f CheckerFunc) Check(ctx context.Context, target string) CheckResult {
	return f(ctx, target)
}

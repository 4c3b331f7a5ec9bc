package probe

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// HTTPChecker treats any completed HTTP exchange as proof of life.
// The status code is recorded but never turns a response into a failure:
// a host that answers with an error page is still listening.
type HTTPChecker struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPChecker(timeout time.Duration, insecureTLS bool) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-signed lab hosts
	}
	return &HTTPChecker{
		Client: &http.Client{
			Transport: transport,
			// the first response is the signal; redirects would only add round trips
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Timeout: timeout,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	if !isProbeURL(target) {
		return CheckResult{Reachable: false, Reason: ReasonInvalidURL}
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Reachable: false, Reason: ReasonInvalidURL}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Reachable: false, LatencyMS: latency, Reason: Classify(err)}
	}
	defer resp.Body.Close()

	return CheckResult{
		Reachable:  true,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
	}
}

func isProbeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// Failure classes reported in CheckResult.Reason and by CheckDNS.
const (
	ReasonInvalidURL = "INVALID_URL"
	ReasonNXDomain   = "NXDOMAIN"
	ReasonNoARecord  = "NO_A_RECORD"
	ReasonResolves   = "RESOLVES"
	ReasonDNSFailure = "SERVFAIL_or_TIMEOUT"
	ReasonTimeout    = "TIMEOUT"
	ReasonCancelled  = "CANCELLED"
	ReasonRefused    = "REFUSED"
	ReasonTLS        = "TLS"
	ReasonHTTPError  = "HTTP_ERROR"
)

// Classify maps a transport error to a failure class without any further
// network calls, so an unreachable verdict is never delayed by diagnosis.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		if de.IsNotFound {
			return ReasonNXDomain
		}
		return ReasonDNSFailure
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonRefused
	}

	var (
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		headerErr   tls.RecordHeaderError
		invalidCert x509.CertificateInvalidError
	)
	if errors.As(err, &certErr) || errors.As(err, &unknownAuth) || errors.As(err, &hostnameErr) ||
		errors.As(err, &headerErr) || errors.As(err, &invalidCert) {
		return ReasonTLS
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonHTTPError
}

// DNSStatus describes how a catalog host resolves. Used by preflight only;
// probes never wait on it.
type DNSStatus struct {
	Domain        string
	HasAOrAAAA    bool
	IPs           []net.IP
	CNAME         string
	Class         string // RESOLVES | NXDOMAIN | NO_A_RECORD | SERVFAIL_or_TIMEOUT | INVALID_URL
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// CheckDNS resolves the host of a target URL with the OS resolver.
func CheckDNS(ctx context.Context, target string) DNSStatus {
	s := DNSStatus{Domain: ExtractHost(target)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = ReasonInvalidURL
		return s
	}
	if ip := net.ParseIP(s.Domain); ip != nil {
		s.HasAOrAAAA = true
		s.IPs = []net.IP{ip}
		s.Class = ReasonResolves
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	r := &net.Resolver{} // OS resolver

	ips, err := r.LookupIP(ctx, "ip", s.Domain)
	if err == nil && len(ips) > 0 {
		s.HasAOrAAAA = true
		s.IPs = ips
		s.Class = ReasonResolves
	} else if err != nil {
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) && de.IsNotFound {
			s.Class = ReasonNXDomain
		} else {
			s.Class = ReasonDNSFailure
		}
	} else {
		s.Class = ReasonNoARecord
	}

	if cname, err := r.LookupCNAME(ctx, s.Domain); err == nil && !strings.EqualFold(cname, s.Domain+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}
	return s
}

// ExtractHost pulls the hostname from a URL string.
func ExtractHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(raw)
	}
	return u.Hostname()
}

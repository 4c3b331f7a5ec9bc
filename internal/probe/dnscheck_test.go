package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ReasonTimeout},
		{"cancelled", fmt.Errorf("get: %w", context.Canceled), ReasonCancelled},
		{"nxdomain", &net.DNSError{Err: "no such host", Name: "x.invalid", IsNotFound: true}, ReasonNXDomain},
		{"servfail", &net.DNSError{Err: "server misbehaving", Name: "x", IsTemporary: true}, ReasonDNSFailure},
		{"net timeout", &net.OpError{Op: "dial", Err: timeoutErr{}}, ReasonTimeout},
		{"other", errors.New("boom"), ReasonHTTPError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.err), c.name)
	}
}

func TestExtractHost(t *testing.T) {
	assert.Equal(t, "jellyfin.lab.local", ExtractHost("https://jellyfin.lab.local:8096/web"))
	assert.Equal(t, "plain", ExtractHost(" plain "))
}

func TestCheckDNS_IPLiteralAndInvalid(t *testing.T) {
	s := CheckDNS(context.Background(), "http://127.0.0.1:8080")
	assert.Equal(t, ReasonResolves, s.Class)
	assert.True(t, s.HasAOrAAAA)

	bad := CheckDNS(context.Background(), "")
	assert.Equal(t, ReasonInvalidURL, bad.Class)
}

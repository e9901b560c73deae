package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsConnectionError(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	require.True(t, IsConnectionError(opErr))
	require.True(t, IsConnectionError(fmt.Errorf("rdap lookup failed: %w", opErr)))
	require.True(t, IsConnectionError(&url.Error{Op: "Get", URL: "https://rdap.example", Err: opErr}))
	require.True(t, IsConnectionError(&net.DNSError{Err: "no such host", Name: "rdap.example"}))

	require.False(t, IsConnectionError(nil))
	require.False(t, IsConnectionError(ErrNoRecord))
	require.False(t, IsConnectionError(errors.New("malformed response")))
}

func TestExtractCreationDate(t *testing.T) {
	body := "Domain Name: example.com\r\nCreation Date: 1995-08-14T04:00:00Z\r\nRegistrar: Example Registrar\r\n"
	require.Equal(t, "1995-08-14T04:00:00Z", extractCreationDate(body))

	require.Equal(t, "", extractCreationDate("Domain Name: example.com\r\n"))
	require.Equal(t, "2001-02-03", extractCreationDate("created: 2001-02-03\n"))
}

type stubLookup struct {
	reg *Registration
	err error

	calls int
}

func (s *stubLookup) Lookup(ctx context.Context, domain string) (*Registration, error) {
	s.calls++
	return s.reg, s.err
}

func TestResolverPrefersPrimary(t *testing.T) {
	primary := &stubLookup{reg: &Registration{Domain: "acme.com", CreationDate: "1999-01-01"}}
	fallback := &stubLookup{}

	r := &Resolver{Primary: primary, Fallback: fallback}
	reg, err := r.Lookup(context.Background(), "acme.com")
	require.NoError(t, err)
	require.Equal(t, "1999-01-01", reg.CreationDate)
	require.Zero(t, fallback.calls)
}

func TestResolverNoRecordDoesNotFallBack(t *testing.T) {
	primary := &stubLookup{err: ErrNoRecord}
	fallback := &stubLookup{reg: &Registration{Domain: "acme.com"}}

	r := &Resolver{Primary: primary, Fallback: fallback}
	_, err := r.Lookup(context.Background(), "acme.com")
	require.ErrorIs(t, err, ErrNoRecord)
	require.Zero(t, fallback.calls)
}

func TestResolverRegistryErrorFallsBack(t *testing.T) {
	primary := &stubLookup{err: errors.New("no rdap server for tld")}
	fallback := &stubLookup{reg: &Registration{Domain: "acme.sh", Source: whoisSource}}

	r := &Resolver{Primary: primary, Fallback: fallback}
	reg, err := r.Lookup(context.Background(), "acme.sh")
	require.NoError(t, err)
	require.Equal(t, whoisSource, reg.Source)
}

func TestResolverExplicitFallbackTLD(t *testing.T) {
	primary := &stubLookup{reg: &Registration{Domain: "acme.de"}}
	fallback := &stubLookup{err: ErrNoRecord}

	r := &Resolver{Primary: primary, Fallback: fallback, FallbackTLDs: map[string]bool{"de": true}}
	_, err := r.Lookup(context.Background(), "acme.de")
	require.ErrorIs(t, err, ErrNoRecord)
	require.Zero(t, primary.calls)
}

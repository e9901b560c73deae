// Package checker performs domain-registration lookups. The primary path is
// RDAP; a WHOIS fallback covers TLDs without RDAP coverage.
package checker

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// ErrNoRecord reports that the registry has no record for the domain, which
// usually means the domain is unregistered.
var ErrNoRecord = errors.New("no registration record")

// Registration captures the registration data relevant to availability.
// CreationDate empty means the registry answered but reported no
// registration/creation event.
type Registration struct {
	Domain       string   `json:"domain"`
	CreationDate string   `json:"creation_date,omitempty"`
	Registrar    string   `json:"registrar,omitempty"`
	Statuses     []string `json:"statuses,omitempty"`
	Source       string   `json:"source,omitempty"`
}

// RegistrationLookup resolves registration data for a full domain name.
type RegistrationLookup interface {
	Lookup(ctx context.Context, domain string) (*Registration, error)
}

// IsConnectionError reports whether err is a transport-level failure, as
// opposed to a registry-level answer.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || IsConnectionError(urlErr.Err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

package checker

import (
	"context"
	"errors"
	"strings"
)

// Resolver routes lookups to RDAP with a WHOIS fallback for TLDs that lack
// RDAP coverage. Fallback applies when the TLD is explicitly listed, or when
// the primary lookup fails with a registry-level error (not a definitive
// no-record answer and not a transport failure).
type Resolver struct {
	Primary      RegistrationLookup
	Fallback     RegistrationLookup
	FallbackTLDs map[string]bool
}

// Lookup resolves the domain through the primary path, falling back when
// configured.
func (r *Resolver) Lookup(ctx context.Context, domain string) (*Registration, error) {
	if r == nil || r.Primary == nil {
		return nil, errors.New("registration lookup is not configured")
	}

	tld := ""
	if idx := strings.LastIndex(domain, "."); idx >= 0 {
		tld = strings.ToLower(domain[idx+1:])
	}

	if r.Fallback != nil && r.FallbackTLDs[tld] {
		return r.Fallback.Lookup(ctx, domain)
	}

	reg, err := r.Primary.Lookup(ctx, domain)
	if err == nil || errors.Is(err, ErrNoRecord) || IsConnectionError(err) {
		return reg, err
	}

	if r.Fallback != nil {
		return r.Fallback.Lookup(ctx, domain)
	}
	return reg, err
}

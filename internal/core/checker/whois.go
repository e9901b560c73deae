package checker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const (
	whoisSource     = "whois"
	whoisIanaServer = "whois.iana.org"
	whoisPort       = "43"
	whoisMaxBytes   = 128 * 1024
)

var whoisAvailablePatterns = []string{
	"no match",
	"not found",
	"no data found",
	"no entries found",
	"status: free",
}

var whoisCreationPrefixes = []string{
	"creation date:",
	"created:",
	"created on:",
	"registered on:",
	"registration time:",
}

// WhoisClient performs registration lookups over port-43 WHOIS. It resolves
// the authoritative server via IANA unless an override is configured for the
// TLD.
type WhoisClient struct {
	Servers map[string]string
	Timeout time.Duration
}

// Lookup queries WHOIS and interprets the response into a Registration.
func (c *WhoisClient) Lookup(ctx context.Context, domain string) (*Registration, error) {
	value := strings.ToLower(strings.TrimSpace(domain))
	if value == "" {
		return nil, errors.New("domain is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	parts := strings.Split(value, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("domain %q must include a tld", value)
	}
	tld := parts[len(parts)-1]

	server, err := c.resolveServer(ctx, tld)
	if err != nil {
		return nil, err
	}

	body, err := c.query(ctx, server, value)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(body)
	for _, pattern := range whoisAvailablePatterns {
		if strings.Contains(lower, pattern) {
			return nil, ErrNoRecord
		}
	}

	return &Registration{
		Domain:       value,
		CreationDate: extractCreationDate(body),
		Source:       whoisSource,
	}, nil
}

func (c *WhoisClient) resolveServer(ctx context.Context, tld string) (string, error) {
	if c != nil && len(c.Servers) > 0 {
		if server := strings.TrimSpace(c.Servers[tld]); server != "" {
			return server, nil
		}
	}

	response, err := c.query(ctx, whoisIanaServer, tld)
	if err != nil {
		return "", fmt.Errorf("whois iana referral failed: %w", err)
	}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "refer:") || strings.HasPrefix(lower, "whois:") {
			parts := strings.SplitN(trimmed, ":", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1]), nil
			}
		}
	}

	return "", fmt.Errorf("no whois server for tld %s", tld)
}

func (c *WhoisClient) query(ctx context.Context, server, q string) (string, error) {
	dialer := &net.Dialer{}
	timeout := 10 * time.Second
	if c != nil && c.Timeout > 0 {
		timeout = c.Timeout
	}
	dialer.Timeout = timeout

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(server, whoisPort))
	if err != nil {
		return "", fmt.Errorf("whois dial failed: %w", err)
	}
	defer conn.Close() // nolint:errcheck // best-effort cleanup on network connection

	_ = conn.SetDeadline(time.Now().Add(timeout))

	if _, err := fmt.Fprintf(conn, "%s\r\n", q); err != nil {
		return "", fmt.Errorf("whois query failed: %w", err)
	}

	limited := &io.LimitedReader{R: bufio.NewReader(conn), N: whoisMaxBytes}
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("whois read failed: %w", err)
	}

	return string(body), nil
}

func extractCreationDate(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		for _, prefix := range whoisCreationPrefixes {
			if strings.HasPrefix(lower, prefix) {
				return strings.TrimSpace(trimmed[len(prefix):])
			}
		}
	}
	return ""
}

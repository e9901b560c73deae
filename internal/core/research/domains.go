package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core"
	"github.com/brandscope/brandscope/internal/core/checker"
)

// checkDomains resolves registration status for the sanitized brand under
// every configured TLD. A missing lookup dependency marks every entry as
// skipped instead of failing the research run; every TLD gets exactly one
// entry regardless of outcome.
func (a *Aggregator) checkDomains(ctx context.Context, brandName string) core.Lookup[core.DomainStatusMap] {
	base := SanitizeBrand(brandName)
	tlds := a.TLDs
	if len(tlds) == 0 {
		tlds = DefaultTLDs
	}

	statuses := make(core.DomainStatusMap, len(tlds))

	if base == "" {
		return core.Failed(statuses, fmt.Sprintf("brand name %q contains no alphanumeric characters", brandName))
	}

	if a.Domains == nil {
		for _, tld := range tlds {
			statuses[base+normalizeTLD(tld)] = core.DomainSkipped
		}
		return core.Failed(statuses, "domain lookup unavailable, checks skipped")
	}

	firstErr := ""
	for _, tld := range tlds {
		domain := base + normalizeTLD(tld)

		if err := a.pace(ctx); err != nil {
			statuses[domain] = core.DomainCheckError
			if firstErr == "" {
				firstErr = fmt.Sprintf("domain check interrupted: %v", err)
			}
			continue
		}

		status := a.lookupDomain(ctx, domain)
		statuses[domain] = status
		if firstErr == "" && (status == core.DomainCheckError || status == core.DomainCheckErrorConnection) {
			firstErr = fmt.Sprintf("domain check failed for %s", domain)
		}
	}

	if firstErr != "" {
		return core.Failed(statuses, firstErr)
	}
	return core.OK(statuses)
}

func (a *Aggregator) lookupDomain(ctx context.Context, domain string) core.DomainStatus {
	reg, err := a.Domains.Lookup(ctx, domain)
	switch {
	case err == nil && reg != nil && reg.CreationDate != "":
		return core.DomainTaken
	case err == nil:
		// Registry answered but reported no creation date; treat as
		// available pending manual verification.
		return core.DomainPotentiallyAvailable
	case errors.Is(err, checker.ErrNoRecord):
		return core.DomainPotentiallyAvailable
	case checker.IsConnectionError(err):
		a.logger().Warn("domain lookup connection error", zap.String("domain", domain), zap.Error(err))
		return core.DomainCheckErrorConnection
	default:
		a.logger().Warn("domain lookup failed", zap.String("domain", domain), zap.Error(err))
		return core.DomainCheckError
	}
}

func normalizeTLD(tld string) string {
	value := strings.ToLower(strings.TrimSpace(tld))
	if value == "" {
		return value
	}
	if !strings.HasPrefix(value, ".") {
		value = "." + value
	}
	return value
}

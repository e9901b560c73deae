package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core"
)

// TrademarkSite maps a jurisdiction to the trademark database host probed via
// site-scoped web search.
type TrademarkSite struct {
	Host  string
	Label string
}

// trademarkSites lists supported jurisdictions. Only US is wired today; other
// codes short-circuit to unsupported_country without touching the search
// client.
var trademarkSites = map[string]TrademarkSite{
	"US": {Host: "tess2.uspto.gov", Label: "USPTO TESS (via web search)"},
}

// checkTrademarks performs the basic indexed-exact-match probe of the
// jurisdiction's trademark database. This is a weak signal, not a clearance
// search, and the details say so.
func (a *Aggregator) checkTrademarks(ctx context.Context, brandName string) core.Lookup[core.TrademarkStatus] {
	country := a.CountryCode
	if country == "" {
		country = "US"
	}

	site, ok := trademarkSites[country]
	if !ok {
		status := core.TrademarkStatus{
			Status:          core.TrademarkUnsupportedCountry,
			DatabaseChecked: fmt.Sprintf("%s (unsupported)", country),
		}
		return core.Failed(status, fmt.Sprintf("country code %q not supported for trademark check", country))
	}

	query := fmt.Sprintf(`site:%s "%s"`, site.Host, brandName)
	status := core.TrademarkStatus{
		Status:          core.TrademarkCheckError,
		DatabaseChecked: site.Label,
		QueryUsed:       query,
	}

	if a.Search == nil {
		return core.Failed(status, "trademark check failed: search client not configured")
	}

	resp, err := a.Search.Search(ctx, query, 2)
	if err != nil {
		a.logger().Warn("trademark check failed", zap.String("brand", brandName), zap.Error(err))
		status.Details = []string{fmt.Sprintf("Check failed: %v", err)}
		return core.Failed(status, fmt.Sprintf("trademark check failed: %v", err))
	}

	hits := resp.Web.Results
	if len(hits) > 0 {
		status.Status = core.TrademarkConflictFound
		status.Details = []string{
			fmt.Sprintf("Found %d result(s) potentially related to %q via web search on %s.", len(hits), brandName, site.Host),
			"This suggests a potential conflict exists; investigate via the official database.",
			fmt.Sprintf("Example hit: %s (%s)", hits[0].Title, hits[0].URL),
		}
		return core.OK(status)
	}

	status.Status = core.TrademarkNoExactMatch
	status.Details = []string{
		fmt.Sprintf("No exact match for %q found via web search on %s.", brandName, site.Host),
		"This does not confirm availability; similar or non-indexed marks may exist.",
	}
	return core.OK(status)
}

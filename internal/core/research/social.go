package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core"
	"github.com/brandscope/brandscope/internal/search"
)

// Platform pairs a display label with its site-scoped query template.
type Platform struct {
	Label       string
	QueryFormat string
}

// DefaultPlatforms is the fixed, ordered platform list. The LinkedIn general
// query excludes company pages, which the dedicated company query covers.
var DefaultPlatforms = []Platform{
	{Label: "Twitter", QueryFormat: `site:twitter.com "%s"`},
	{Label: "Instagram", QueryFormat: `site:instagram.com "%s"`},
	{Label: "Facebook", QueryFormat: `site:facebook.com "%s"`},
	{Label: "LinkedIn (Company)", QueryFormat: `site:linkedin.com/company/ "%s"`},
	{Label: "LinkedIn (General)", QueryFormat: `site:linkedin.com "%s" -site:linkedin.com/company/`},
}

// searchSocialMedia classifies indexed presence per platform. Every platform
// is attempted even after a failure; the lookup-level error carries the first
// platform failure encountered.
func (a *Aggregator) searchSocialMedia(ctx context.Context, brandName string) core.Lookup[core.PlatformStatusMap] {
	statuses := make(core.PlatformStatusMap, len(DefaultPlatforms))
	brandLower := strings.ToLower(brandName)
	firstErr := ""

	recordErr := func(platform string, err error) {
		a.logger().Warn("social media check failed",
			zap.String("brand", brandName),
			zap.String("platform", platform),
			zap.Error(err))
		if firstErr == "" {
			firstErr = fmt.Sprintf("%s check failed: %v", platform, err)
		}
	}

	for _, platform := range DefaultPlatforms {
		if a.Search == nil {
			statuses[platform.Label] = core.PlatformCheckError
			if firstErr == "" {
				firstErr = "social media check failed: search client not configured"
			}
			continue
		}

		if err := a.pace(ctx); err != nil {
			statuses[platform.Label] = core.PlatformCheckError
			recordErr(platform.Label, err)
			continue
		}

		query := fmt.Sprintf(platform.QueryFormat, brandName)
		resp, err := a.Search.Search(ctx, query, 3)
		if err != nil {
			statuses[platform.Label] = core.PlatformCheckError
			recordErr(platform.Label, err)
			continue
		}

		statuses[platform.Label] = classifyPresence(resp.Web.Results, brandLower)
	}

	if firstErr != "" {
		return core.Failed(statuses, firstErr)
	}
	return core.OK(statuses)
}

// classifyPresence marks a platform as used when any result title contains
// the brand or any result URL carries it as a path segment.
func classifyPresence(results []search.Result, brandLower string) core.PlatformStatus {
	for _, item := range results {
		titleLower := strings.ToLower(item.Title)
		urlLower := strings.ToLower(item.URL)
		if strings.Contains(titleLower, brandLower) || strings.Contains(urlLower, "/"+brandLower) {
			return core.PlatformUsedMentioned
		}
	}
	return core.PlatformPotentiallyAvailable
}

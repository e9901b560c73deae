package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core"
)

const conflictReason = "brand name found in title or domain"

// searchWeb runs the general web presence check: one broad query, dedup by
// URL (first occurrence wins), conflict flag on brand substring in title or
// result domain.
func (a *Aggregator) searchWeb(ctx context.Context, brandName string) core.Lookup[core.WebFindings] {
	query := fmt.Sprintf(`"%s" brand OR company OR official website`, brandName)
	findings := core.WebFindings{
		Links:     []core.WebLink{},
		Conflicts: []core.WebConflict{},
		QueryUsed: query,
	}

	if a.Search == nil {
		return core.Failed(findings, "web search failed: search client not configured")
	}

	resp, err := a.Search.Search(ctx, query, a.searchCount())
	if err != nil {
		a.logger().Warn("web search check failed", zap.String("brand", brandName), zap.Error(err))
		return core.Failed(findings, fmt.Sprintf("web search failed: %v", err))
	}

	brandLower := strings.ToLower(brandName)
	seen := make(map[string]bool, len(resp.Web.Results))
	for _, item := range resp.Web.Results {
		if item.URL == "" || seen[item.URL] {
			continue
		}
		seen[item.URL] = true

		findings.Links = append(findings.Links, core.WebLink{
			URL:     item.URL,
			Title:   item.Title,
			Snippet: item.Description,
		})

		titleLower := strings.ToLower(item.Title)
		domainLower := strings.ToLower(resultDomain(item.URL))
		if strings.Contains(titleLower, brandLower) || (domainLower != "" && strings.Contains(domainLower, brandLower)) {
			findings.Conflicts = append(findings.Conflicts, core.WebConflict{
				URL:    item.URL,
				Title:  item.Title,
				Reason: conflictReason,
			})
		}
	}

	return core.OK(findings)
}

// resultDomain extracts the host segment of a URL (the text between the
// second and third slash) with a leading www. stripped. Malformed URLs yield
// an empty string rather than an error.
func resultDomain(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimPrefix(parts[2], "www.")
}

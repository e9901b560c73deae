// Package research runs the four brand-name checks (web, social, trademark,
// domain registration) and merges them into one consolidated record. Each
// check is independently fallible: failures are caught at the check boundary
// and surfaced in the sub-result's error slot, never as a panic or an abort
// of the sibling checks.
package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brandscope/brandscope/internal/core"
	"github.com/brandscope/brandscope/internal/core/checker"
	"github.com/brandscope/brandscope/internal/search"
)

// DefaultTLDs is the domain suffix list checked when none is configured.
var DefaultTLDs = []string{".com", ".co", ".io", ".ai", ".org", ".net"}

// DefaultPaceInterval is the minimum spacing between consecutive external
// calls inside the social and domain loops.
const DefaultPaceInterval = "500ms"

// Aggregator fans a brand name out to the four checks sequentially and fans
// the partial results back into a ResearchRecord.
type Aggregator struct {
	Search      search.Client
	Domains     checker.RegistrationLookup
	TLDs        []string
	CountryCode string
	SearchCount int

	// Pace spaces out sequential external calls to respect provider rate
	// limits. Nil disables pacing (tests).
	Pace *rate.Limiter

	Log *zap.Logger
}

// Research runs all four checks for the brand name. The only fatal condition
// is a brand name without any alphanumeric content; everything else degrades
// into per-check error slots.
func (a *Aggregator) Research(ctx context.Context, brandName string) (*core.ResearchRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if SanitizeBrand(brandName) == "" {
		return nil, fmt.Errorf("brand name %q contains no alphanumeric characters", brandName)
	}

	log := a.logger()
	log.Info("starting brand research", zap.String("brand", brandName))

	record := &core.ResearchRecord{BrandName: brandName}
	record.WebSearch = a.searchWeb(ctx, brandName)
	record.SocialMediaSearch = a.searchSocialMedia(ctx, brandName)
	record.TrademarkCheck = a.checkTrademarks(ctx, brandName)
	record.DomainAvailability = a.checkDomains(ctx, brandName)
	record.CollectErrors()

	log.Info("completed brand research",
		zap.String("brand", brandName),
		zap.Int("web_links", len(record.WebSearch.Data.Links)),
		zap.Int("web_conflicts", len(record.WebSearch.Data.Conflicts)),
		zap.Strings("errors", record.Errors))

	return record, nil
}

// pace blocks until the shared limiter admits the next external call.
func (a *Aggregator) pace(ctx context.Context) error {
	if a.Pace == nil {
		return nil
	}
	return a.Pace.Wait(ctx)
}

func (a *Aggregator) searchCount() int {
	if a.SearchCount > 0 {
		return a.SearchCount
	}
	return 10
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Log != nil {
		return a.Log
	}
	return zap.NewNop()
}

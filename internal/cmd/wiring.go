package cmd

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brandscope/brandscope/internal/config"
	"github.com/brandscope/brandscope/internal/core/checker"
	"github.com/brandscope/brandscope/internal/core/engine"
	"github.com/brandscope/brandscope/internal/core/research"
	"github.com/brandscope/brandscope/internal/llm"
	"github.com/brandscope/brandscope/internal/metrics"
	"github.com/brandscope/brandscope/internal/search"
	"github.com/brandscope/brandscope/internal/session"
)

// newAnalyzer wires the pipeline from configuration. Clients are built per
// request so session credential overrides take precedence over config keys.
func newAnalyzer(cfg *config.Config, sessions session.Store, m *metrics.Metrics, log *zap.Logger) *engine.Analyzer {
	return &engine.Analyzer{
		Sessions:      sessions,
		NewAggregator: newAggregatorFactory(cfg, log),
		NewCompleter:  newCompleterFactory(cfg),
		Metrics:       m,
		Log:           log,
	}
}

func newAggregatorFactory(cfg *config.Config, log *zap.Logger) func(session.Credentials) *research.Aggregator {
	domains := newDomainResolver(cfg)

	return func(creds session.Credentials) *research.Aggregator {
		apiKey := creds.SearchKey
		if apiKey == "" {
			apiKey = cfg.Search.APIKey
		}

		var client search.Client
		if apiKey != "" {
			client = &search.BraveClient{
				APIKey:  apiKey,
				BaseURL: cfg.Search.BaseURL,
				Timeout: cfg.Search.Timeout,
			}
		}

		var pace *rate.Limiter
		if cfg.Research.PaceInterval > 0 {
			pace = rate.NewLimiter(rate.Every(cfg.Research.PaceInterval), 1)
		}

		return &research.Aggregator{
			Search:      client,
			Domains:     domains,
			TLDs:        cfg.Research.TLDs,
			CountryCode: cfg.Research.CountryCode,
			SearchCount: cfg.Search.Count,
			Pace:        pace,
			Log:         log,
		}
	}
}

func newCompleterFactory(cfg *config.Config) func(session.Credentials) (llm.Completer, error) {
	return func(creds session.Credentials) (llm.Completer, error) {
		llmCfg := cfg.LLM
		if creds.OpenAIKey != "" {
			llmCfg.APIKey = creds.OpenAIKey
		}
		client, err := llm.NewOpenAIClient(llmCfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// newDomainResolver builds the RDAP-primary, WHOIS-fallback registration
// lookup chain.
func newDomainResolver(cfg *config.Config) checker.RegistrationLookup {
	fallbackTLDs := make(map[string]bool, len(cfg.Research.WhoisFallbackTLDs))
	for _, tld := range cfg.Research.WhoisFallbackTLDs {
		fallbackTLDs[strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tld)), ".")] = true
	}

	return &checker.Resolver{
		Primary:      &checker.RDAPClient{},
		Fallback:     &checker.WhoisClient{},
		FallbackTLDs: fallbackTLDs,
	}
}

// Package engine wires the research, evaluation, report, and session pieces
// into the two request-level operations: full analysis and follow-up
// question answering. Clients for the external services are built per
// request so session credential overrides take effect immediately.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/agent"
	"github.com/brandscope/brandscope/internal/core"
	"github.com/brandscope/brandscope/internal/core/research"
	"github.com/brandscope/brandscope/internal/llm"
	"github.com/brandscope/brandscope/internal/metrics"
	"github.com/brandscope/brandscope/internal/report"
	"github.com/brandscope/brandscope/internal/session"
)

var (
	// ErrMissingBrand rejects an analysis without a brand name.
	ErrMissingBrand = errors.New("brand name is required")
	// ErrMissingQuestion rejects a follow-up call without a question.
	ErrMissingQuestion = errors.New("question is required")
	// ErrNotReady marks an analyzer missing a required collaborator.
	ErrNotReady = errors.New("analysis service is not initialized")
	// ErrResearchFailed marks a fatal aggregator abort.
	ErrResearchFailed = errors.New("market research failed")
)

// Analysis is the complete outcome of one analyze request.
type Analysis struct {
	BrandName      string               `json:"brand_name"`
	Research       *core.ResearchRecord `json:"research_data"`
	Evaluation     *core.Evaluation     `json:"evaluation_data"`
	ReportMarkdown string               `json:"report_markdown"`
}

// Analyzer runs the full pipeline for a session. The factory fields build
// per-request clients from the session's credential overrides; a nil
// completer factory (or one reporting llm.ErrNotConfigured) degrades the
// evaluation step instead of failing the run.
type Analyzer struct {
	Sessions      session.Store
	NewAggregator func(creds session.Credentials) *research.Aggregator
	NewCompleter  func(creds session.Credentials) (llm.Completer, error)

	Clock   func() time.Time
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// Analyze clears prior session context, runs the four research checks,
// evaluates the result, renders the markdown report, and persists the new
// context. Sub-check failures degrade; only an unusable brand name or a
// broken analyzer aborts.
func (a *Analyzer) Analyze(ctx context.Context, sessionID, brandName string) (*Analysis, error) {
	brandName = strings.TrimSpace(brandName)
	if brandName == "" {
		return nil, ErrMissingBrand
	}
	if a == nil || a.Sessions == nil || a.NewAggregator == nil {
		return nil, ErrNotReady
	}

	log := a.logger().With(zap.String("brand", brandName))

	// Stale context must not leak into a failed run's QA calls.
	if err := a.Sessions.ClearContext(ctx, sessionID); err != nil {
		log.Warn("failed to clear prior session context", zap.Error(err))
	}

	creds := a.credentials(ctx, sessionID)

	record, err := a.NewAggregator(creds).Research(ctx, brandName)
	if err != nil {
		a.Metrics.RecordAnalysis("research_failed")
		return nil, fmt.Errorf("%w: %v", ErrResearchFailed, err)
	}
	a.Metrics.RecordCheckErrors(failedChecks(record))

	completer := a.completer(creds, log)
	evaluator := &agent.Evaluator{Completer: completer, Log: a.Log}
	evaluation := evaluator.Evaluate(ctx, brandName, record)
	if completer != nil {
		if evaluation.Failed() {
			a.Metrics.RecordCompletion("evaluation", "error")
		} else {
			a.Metrics.RecordCompletion("evaluation", "ok")
		}
	}

	formatter := &report.MarkdownFormatter{Clock: a.Clock}
	doc, err := formatter.Format(&report.Input{
		BrandName:  brandName,
		Research:   record,
		Evaluation: evaluation,
	})
	if err != nil {
		log.Error("report generation failed", zap.Error(err))
		doc = "*Error generating report summary.*"
	}

	sc := &core.SessionContext{
		ResearchData:   record,
		EvaluationData: evaluation,
		AnalyzedBrand:  brandName,
	}
	if err := a.Sessions.PutContext(ctx, sessionID, sc); err != nil {
		// The analysis itself succeeded; only follow-up QA is degraded.
		log.Warn("failed to persist session context", zap.Error(err))
	}

	if evaluation.Failed() {
		a.Metrics.RecordAnalysis("evaluation_failed")
	} else {
		a.Metrics.RecordAnalysis("ok")
	}

	return &Analysis{
		BrandName:      brandName,
		Research:       record,
		Evaluation:     evaluation,
		ReportMarkdown: doc,
	}, nil
}

// Answer resolves a follow-up question against the session's stored context.
// agent.ErrMissingContext comes back verbatim so the transport layer can map
// it to a client error.
func (a *Analyzer) Answer(ctx context.Context, sessionID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrMissingQuestion
	}
	if a == nil || a.Sessions == nil {
		return "", ErrNotReady
	}

	sc, err := a.Sessions.GetContext(ctx, sessionID)
	if err != nil {
		a.Metrics.RecordQuestion("store_error")
		return "", fmt.Errorf("load session context: %w", err)
	}
	if sc == nil || sc.ResearchData == nil {
		a.Metrics.RecordQuestion("missing_context")
		return "", agent.ErrMissingContext
	}

	creds := a.credentials(ctx, sessionID)
	completer := a.completer(creds, a.logger())
	if completer == nil {
		a.Metrics.RecordQuestion("not_configured")
		return "", fmt.Errorf("%w: completion service not configured", ErrNotReady)
	}

	answerer := &agent.Answerer{Completer: completer, Log: a.Log}
	answer, err := answerer.Answer(ctx, question, sc)
	if err != nil {
		a.Metrics.RecordCompletion("question", "error")
		a.Metrics.RecordQuestion("error")
		return "", err
	}
	a.Metrics.RecordCompletion("question", "ok")
	a.Metrics.RecordQuestion("ok")
	return answer, nil
}

// credentials loads session overrides, degrading to defaults on store errors.
func (a *Analyzer) credentials(ctx context.Context, sessionID string) session.Credentials {
	creds, err := a.Sessions.GetCredentials(ctx, sessionID)
	if err != nil {
		a.logger().Warn("failed to load session credentials", zap.Error(err))
		return session.Credentials{}
	}
	return creds
}

// completer builds a per-request completion client, or nil when the service
// is not configured for this session.
func (a *Analyzer) completer(creds session.Credentials, log *zap.Logger) llm.Completer {
	if a.NewCompleter == nil {
		return nil
	}
	completer, err := a.NewCompleter(creds)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			log.Warn("failed to build completion client", zap.Error(err))
		}
		return nil
	}
	return completer
}

func failedChecks(record *core.ResearchRecord) []string {
	var failed []string
	for check, msg := range map[string]string{
		"web":       record.WebSearch.Error,
		"social":    record.SocialMediaSearch.Error,
		"trademark": record.TrademarkCheck.Error,
		"domain":    record.DomainAvailability.Error,
	} {
		if msg != "" {
			failed = append(failed, check)
		}
	}
	return failed
}

func (a *Analyzer) logger() *zap.Logger {
	if a != nil && a.Log != nil {
		return a.Log
	}
	return zap.NewNop()
}

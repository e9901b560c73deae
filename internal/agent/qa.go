package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core"
	"github.com/brandscope/brandscope/internal/llm"
)

const (
	qaTemperature = 0.3
	qaMaxTokens   = 150
)

// ErrMissingContext marks a follow-up question asked before any analysis has
// been stored for the session.
var ErrMissingContext = errors.New("missing analysis context")

// evaluationUnavailable is the condensed-context placeholder used when the
// evaluation step failed or was skipped.
const evaluationUnavailable = "Evaluation not available or failed."

// QAContext is the condensed analysis summary handed to the completion
// service for follow-up answering. It deliberately drops link lists and raw
// details to keep the prompt small.
type QAContext struct {
	BrandName       string `json:"brand_name"`
	ResearchSummary struct {
		WebConflictCount int                    `json:"web_conflict_count"`
		SocialMedia      core.PlatformStatusMap `json:"social_media_status"`
		Domains          core.DomainStatusMap   `json:"domain_status"`
		TrademarkStatus  string                 `json:"trademark_status"`
	} `json:"research_summary"`
	// EvaluationSummary is either the validated result or the unavailable
	// placeholder string.
	EvaluationSummary any `json:"evaluation_summary"`
}

// Answerer answers follow-up questions strictly from stored session context.
type Answerer struct {
	Completer llm.Completer
	Log       *zap.Logger
}

// Answer resolves a free-text question against the stored analysis context.
// A missing or research-less context returns ErrMissingContext; completion
// failures come back as ordinary errors with distinct messages per cause.
func (a *Answerer) Answer(ctx context.Context, question string, sessionCtx *core.SessionContext) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question must not be empty")
	}
	if sessionCtx == nil || sessionCtx.ResearchData == nil {
		return "", ErrMissingContext
	}
	if a.Completer == nil {
		return "", errors.New("question answering unavailable: completion service not configured")
	}

	condensed := CondenseContext(sessionCtx)
	prompt, err := qaPrompt(question, condensed)
	if err != nil {
		return "", fmt.Errorf("failed to build question prompt: %w", err)
	}

	a.logger().Info("answering follow-up question",
		zap.String("brand", condensed.BrandName),
		zap.Int("question_len", len(question)))

	answer, err := a.Completer.Complete(ctx, llm.Request{
		SystemPrompt: qaSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  qaTemperature,
		MaxTokens:    qaMaxTokens,
	})
	if err != nil {
		a.logger().Warn("question completion failed", zap.Error(err))
		return "", errors.New(completionErrorMessage("question answering", err))
	}

	return strings.TrimSpace(answer), nil
}

// CondenseContext reduces a full session context to the summary shape the
// question prompt carries.
func CondenseContext(sessionCtx *core.SessionContext) *QAContext {
	record := sessionCtx.ResearchData

	condensed := &QAContext{BrandName: record.BrandName}
	condensed.ResearchSummary.WebConflictCount = len(record.WebSearch.Data.Conflicts)
	condensed.ResearchSummary.SocialMedia = record.SocialMediaSearch.Data
	condensed.ResearchSummary.Domains = record.DomainAvailability.Data
	condensed.ResearchSummary.TrademarkStatus = string(record.TrademarkCheck.Data.Status)
	if condensed.ResearchSummary.TrademarkStatus == "" {
		condensed.ResearchSummary.TrademarkStatus = "unknown"
	}

	if eval := sessionCtx.EvaluationData; eval != nil && !eval.Failed() {
		condensed.EvaluationSummary = eval.Result
	} else {
		condensed.EvaluationSummary = evaluationUnavailable
	}
	return condensed
}

func (a *Answerer) logger() *zap.Logger {
	if a.Log != nil {
		return a.Log
	}
	return zap.NewNop()
}

// Package agent implements the two completion-backed steps of the pipeline:
// brand evaluation over a research record and context-grounded follow-up
// question answering. Both steps trap every completion failure and return it
// as a value; callers never see a transport error escape.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core"
	"github.com/brandscope/brandscope/internal/llm"
)

const evaluationTemperature = 0.4

var evaluationKeys = []string{
	"linguistic_analysis",
	"memorability_distinctiveness",
	"relevance",
	"availability_summary",
	"overall_score",
}

// Evaluator asks the completion service to score a brand name against its
// research record and validates the structured response.
type Evaluator struct {
	Completer llm.Completer
	Log       *zap.Logger
}

// Evaluate runs one completion round and returns either a validated result or
// an error shape with the raw response preserved. It never returns nil.
func (e *Evaluator) Evaluate(ctx context.Context, brandName string, record *core.ResearchRecord) *core.Evaluation {
	log := e.logger()

	if e.Completer == nil {
		log.Warn("evaluation skipped, completion service not configured", zap.String("brand", brandName))
		return &core.Evaluation{Err: "evaluation unavailable: completion service not configured"}
	}
	if record == nil {
		return &core.Evaluation{Err: "missing research data for evaluation"}
	}

	prompt, err := evaluationPrompt(brandName, record)
	if err != nil {
		return &core.Evaluation{Err: fmt.Sprintf("failed to build evaluation prompt: %v", err)}
	}

	log.Info("requesting brand evaluation", zap.String("brand", brandName))
	raw, err := e.Completer.Complete(ctx, llm.Request{
		SystemPrompt: evaluationSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  evaluationTemperature,
		JSONMode:     true,
	})
	if err != nil {
		log.Warn("evaluation completion failed", zap.String("brand", brandName), zap.Error(err))
		return &core.Evaluation{Err: completionErrorMessage("evaluation", err)}
	}

	result, verr := parseEvaluation(raw)
	if verr != nil {
		log.Warn("evaluation response rejected",
			zap.String("brand", brandName),
			zap.String("reason", verr.Error()))
		return &core.Evaluation{Err: verr.Error(), RawResponse: raw}
	}

	log.Info("evaluation complete",
		zap.String("brand", brandName),
		zap.Int("overall_score", result.OverallScore))
	return &core.Evaluation{Result: result}
}

// parseEvaluation enforces the strict response contract: valid JSON, exactly
// the five expected keys, and an overall_score coercible to an integer.
func parseEvaluation(raw string) (*core.EvaluationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, errors.New("failed to parse completion JSON response")
	}

	if len(fields) != len(evaluationKeys) {
		return nil, errors.New("completion response format error (incorrect keys)")
	}
	for _, key := range evaluationKeys {
		if _, ok := fields[key]; !ok {
			return nil, errors.New("completion response format error (incorrect keys)")
		}
	}

	result := &core.EvaluationResult{}
	for key, dst := range map[string]*string{
		"linguistic_analysis":          &result.LinguisticAnalysis,
		"memorability_distinctiveness": &result.MemorabilityDistinctiveness,
		"relevance":                    &result.Relevance,
		"availability_summary":         &result.AvailabilitySummary,
	} {
		if err := json.Unmarshal(fields[key], dst); err != nil {
			return nil, fmt.Errorf("completion response format error (%s is not a string)", key)
		}
	}

	score, err := coerceScore(fields["overall_score"])
	if err != nil {
		return nil, errors.New("completion response format error (invalid overall_score type)")
	}
	result.OverallScore = score
	return result, nil
}

// coerceScore accepts an integer, a fractional number (truncated), or a
// numeric string. Anything else is a contract violation.
func coerceScore(raw json.RawMessage) (int, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strconv.Atoi(strings.TrimSpace(asString))
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return int(asNumber), nil
	}
	return 0, fmt.Errorf("overall_score %s is neither number nor numeric string", string(raw))
}

// completionErrorMessage maps transport sentinels to distinct user-facing
// messages, keeping the step name in front for the aggregate error list.
func completionErrorMessage(step string, err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return fmt.Sprintf("%s unavailable: completion service not configured", step)
	case errors.Is(err, llm.ErrAuth):
		return fmt.Sprintf("%s failed: completion service rejected credentials", step)
	case errors.Is(err, llm.ErrRateLimited):
		return fmt.Sprintf("%s failed: completion service rate limit exceeded", step)
	default:
		return fmt.Sprintf("%s failed: %v", step, err)
	}
}

func (e *Evaluator) logger() *zap.Logger {
	if e.Log != nil {
		return e.Log
	}
	return zap.NewNop()
}

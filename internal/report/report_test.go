package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brandscope/brandscope/internal/core"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
}

func reportInput() *Input {
	record := &core.ResearchRecord{
		BrandName: "Acme",
		WebSearch: core.OK(core.WebFindings{
			Links: []core.WebLink{{URL: "https://acme.com", Title: "Acme Inc"}},
			Conflicts: []core.WebConflict{
				{URL: "https://acme.com", Title: "Acme Inc", Reason: "brand name found in title or domain"},
			},
			QueryUsed: `"Acme" brand OR company OR official website`,
		}),
		SocialMediaSearch: core.OK(core.PlatformStatusMap{
			"Twitter":   core.PlatformUsedMentioned,
			"Instagram": core.PlatformPotentiallyAvailable,
		}),
		TrademarkCheck: core.OK(core.TrademarkStatus{
			Status:          core.TrademarkNoExactMatch,
			DatabaseChecked: "USPTO TESS (via web search)",
			Details:         []string{"No exact match for \"Acme\" found."},
		}),
		DomainAvailability: core.Failed(core.DomainStatusMap{
			"acme.com": core.DomainTaken,
			"acme.io":  core.DomainCheckErrorConnection,
		}, "domain check failed for acme.io"),
	}
	record.CollectErrors()

	return &Input{
		BrandName: "Acme",
		Research:  record,
		Evaluation: &core.Evaluation{Result: &core.EvaluationResult{
			LinguisticAnalysis:          "Short, punchy.",
			MemorabilityDistinctiveness: "Common word.",
			Relevance:                   "Abstract.",
			AvailabilitySummary:         "High conflict.",
			OverallScore:                4,
		}},
	}
}

func TestMarkdownReport(t *testing.T) {
	f := &MarkdownFormatter{Clock: fixedClock}

	doc, err := f.Format(reportInput())
	require.NoError(t, err)

	require.Contains(t, doc, "# Brand Analysis Report: Acme")
	require.Contains(t, doc, "_Generated on: 2025-06-01 12:30:00_")
	require.Contains(t, doc, "## Market Research Summary")
	require.Contains(t, doc, "- **Potential Conflicts**: 1")
	require.Contains(t, doc, "## Social Media Presence")
	require.Contains(t, doc, "- **Twitter**: used_mentioned")
	require.Contains(t, doc, "## Trademark Check")
	require.Contains(t, doc, "- **Status**: no_exact_match_found_on_site")
	require.Contains(t, doc, "## Domain Availability")
	require.Contains(t, doc, "- **acme.com**: taken")
	require.Contains(t, doc, "- **Error**: domain check failed for acme.io")
	require.Contains(t, doc, "## Brand Evaluation (via LLM)")
	require.Contains(t, doc, "- **Overall Score**: 4")
}

func TestMarkdownReportEvaluationError(t *testing.T) {
	input := reportInput()
	input.Evaluation = &core.Evaluation{
		Err:         "completion response format error (incorrect keys)",
		RawResponse: `{"unexpected": true}`,
	}

	doc, err := (&MarkdownFormatter{Clock: fixedClock}).Format(input)
	require.NoError(t, err)
	require.Contains(t, doc, "*Evaluation Error: completion response format error (incorrect keys)*")
	require.Contains(t, doc, `{"unexpected": true}`)
	require.NotContains(t, doc, "Overall Score")
}

func TestMarkdownReportEvaluationSkipped(t *testing.T) {
	input := reportInput()
	input.Evaluation = nil

	doc, err := (&MarkdownFormatter{Clock: fixedClock}).Format(input)
	require.NoError(t, err)
	require.Contains(t, doc, "_(No evaluation data provided or evaluation skipped)_")
}

func TestMarkdownReportDeterministic(t *testing.T) {
	f := &MarkdownFormatter{Clock: fixedClock}
	first, err := f.Format(reportInput())
	require.NoError(t, err)
	second, err := f.Format(reportInput())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTableReport(t *testing.T) {
	doc, err := (&TableFormatter{Clock: fixedClock}).Format(reportInput())
	require.NoError(t, err)
	require.Contains(t, doc, "Brand Analysis: Acme")
	require.Contains(t, doc, "acme.com")
	require.Contains(t, doc, "used_mentioned")
	require.Contains(t, doc, "4/10")
}

func TestJSONReport(t *testing.T) {
	doc, err := (&JSONFormatter{Indent: true}).Format(reportInput())
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(doc), &payload))
	require.Contains(t, payload, "brand_name")
	require.Contains(t, payload, "research_data")
	require.Contains(t, payload, "evaluation_data")
}

func TestFormatterRequiresResearch(t *testing.T) {
	for _, f := range []Formatter{
		&MarkdownFormatter{Clock: fixedClock},
		&TableFormatter{Clock: fixedClock},
		&JSONFormatter{},
	} {
		_, err := f.Format(&Input{BrandName: "Acme"})
		require.ErrorIs(t, err, ErrNoResearchData)
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatMarkdown, format)

	format, err = ParseFormat(" Table ")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
}

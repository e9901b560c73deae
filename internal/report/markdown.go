package report

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders the analysis as a markdown document: title,
// timestamp, one section per research sub-result, and an evaluation section
// that degrades to the error message plus raw response when the evaluation
// step failed.
type MarkdownFormatter struct {
	Clock func() time.Time
}

// Format renders one markdown report.
func (f *MarkdownFormatter) Format(input *Input) (string, error) {
	if input == nil || input.Research == nil {
		return "", ErrNoResearchData
	}
	record := input.Research

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Brand Analysis Report: %s\n", input.BrandName))
	sb.WriteString(fmt.Sprintf("_Generated on: %s_\n\n", timestamp(f.Clock)))

	sb.WriteString("## Market Research Summary\n\n")
	web := record.WebSearch
	sb.WriteString(fmt.Sprintf("- **Query Used**: %s\n", web.Data.QueryUsed))
	sb.WriteString(fmt.Sprintf("- **Links Found**: %d\n", len(web.Data.Links)))
	if len(web.Data.Conflicts) == 0 {
		sb.WriteString("- **Potential Conflicts**: none found\n")
	} else {
		sb.WriteString(fmt.Sprintf("- **Potential Conflicts**: %d\n", len(web.Data.Conflicts)))
		for _, conflict := range web.Data.Conflicts {
			sb.WriteString(fmt.Sprintf("  - %s (%s): %s\n", conflict.Title, conflict.URL, conflict.Reason))
		}
	}
	writeSectionError(&sb, web.Error)

	sb.WriteString("\n## Social Media Presence\n\n")
	for _, platform := range sortedKeys(record.SocialMediaSearch.Data) {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", platform, record.SocialMediaSearch.Data[platform]))
	}
	writeSectionError(&sb, record.SocialMediaSearch.Error)

	sb.WriteString("\n## Trademark Check\n\n")
	trademark := record.TrademarkCheck.Data
	sb.WriteString(fmt.Sprintf("- **Status**: %s\n", trademark.Status))
	sb.WriteString(fmt.Sprintf("- **Database Checked**: %s\n", trademark.DatabaseChecked))
	for _, detail := range trademark.Details {
		sb.WriteString(fmt.Sprintf("- %s\n", detail))
	}
	writeSectionError(&sb, record.TrademarkCheck.Error)

	sb.WriteString("\n## Domain Availability\n\n")
	for _, domain := range sortedKeys(record.DomainAvailability.Data) {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", domain, record.DomainAvailability.Data[domain]))
	}
	writeSectionError(&sb, record.DomainAvailability.Error)

	sb.WriteString("\n## Brand Evaluation (via LLM)\n\n")
	switch {
	case input.Evaluation == nil:
		sb.WriteString("_(No evaluation data provided or evaluation skipped)_\n")
	case input.Evaluation.Failed():
		sb.WriteString(fmt.Sprintf("*Evaluation Error: %s*\n", input.Evaluation.Err))
		if input.Evaluation.RawResponse != "" {
			sb.WriteString(fmt.Sprintf("\n_Raw LLM Response (on error):_\n```\n%s\n```\n", input.Evaluation.RawResponse))
		}
	default:
		for _, field := range evaluationLabels {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", field.Label, field.Value(input.Evaluation.Result)))
		}
	}

	return sb.String(), nil
}

func writeSectionError(sb *strings.Builder, msg string) {
	if msg != "" {
		sb.WriteString(fmt.Sprintf("- **Error**: %s\n", msg))
	}
}

package report

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableFormatter renders the analysis as an ASCII table, one row per check
// finding, for terminal use.
type TableFormatter struct {
	Clock func() time.Time
}

// Format renders one table report.
func (f *TableFormatter) Format(input *Input) (string, error) {
	if input == nil || input.Research == nil {
		return "", ErrNoResearchData
	}
	record := input.Research

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("Brand Analysis: %s (%s)", input.BrandName, timestamp(f.Clock)))
	t.AppendHeader(table.Row{"Check", "Subject", "Status"})

	t.AppendRow(table.Row{"Web", "links found", len(record.WebSearch.Data.Links)})
	t.AppendRow(table.Row{"Web", "potential conflicts", len(record.WebSearch.Data.Conflicts)})
	if record.WebSearch.Error != "" {
		t.AppendRow(table.Row{"Web", "error", record.WebSearch.Error})
	}
	t.AppendSeparator()

	for _, platform := range sortedKeys(record.SocialMediaSearch.Data) {
		t.AppendRow(table.Row{"Social", platform, string(record.SocialMediaSearch.Data[platform])})
	}
	if record.SocialMediaSearch.Error != "" {
		t.AppendRow(table.Row{"Social", "error", record.SocialMediaSearch.Error})
	}
	t.AppendSeparator()

	t.AppendRow(table.Row{"Trademark", record.TrademarkCheck.Data.DatabaseChecked, string(record.TrademarkCheck.Data.Status)})
	if record.TrademarkCheck.Error != "" {
		t.AppendRow(table.Row{"Trademark", "error", record.TrademarkCheck.Error})
	}
	t.AppendSeparator()

	for _, domain := range sortedKeys(record.DomainAvailability.Data) {
		t.AppendRow(table.Row{"Domain", domain, string(record.DomainAvailability.Data[domain])})
	}
	if record.DomainAvailability.Error != "" {
		t.AppendRow(table.Row{"Domain", "error", record.DomainAvailability.Error})
	}

	switch {
	case input.Evaluation == nil:
		t.AppendFooter(table.Row{"Evaluation", "", "skipped"})
	case input.Evaluation.Failed():
		t.AppendFooter(table.Row{"Evaluation", "error", input.Evaluation.Err})
	default:
		t.AppendFooter(table.Row{"Evaluation", "overall score", fmt.Sprintf("%d/10", input.Evaluation.Result.OverallScore)})
	}

	return t.Render(), nil
}

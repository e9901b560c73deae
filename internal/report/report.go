// Package report renders a consolidated research record plus its evaluation
// into human-readable documents.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brandscope/brandscope/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
)

// Input carries everything a formatter needs for one report.
type Input struct {
	BrandName  string
	Research   *core.ResearchRecord
	Evaluation *core.Evaluation
}

// Formatter renders one analysis report.
type Formatter interface {
	Format(input *Input) (string, error)
}

// ErrNoResearchData rejects report generation without a research record.
var ErrNoResearchData = errors.New("cannot generate report without research data")

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatMarkdown):
		return FormatMarkdown, nil
	case string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format. The clock feeds
// the generated-on timestamp; pass nil for wall-clock time.
func NewFormatter(format Format, clock func() time.Time) Formatter {
	switch format {
	case FormatTable:
		return &TableFormatter{Clock: clock}
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &MarkdownFormatter{Clock: clock}
	}
}

// evaluationLabels fixes the render order and display labels of the
// evaluation fields.
var evaluationLabels = []struct {
	Label string
	Value func(*core.EvaluationResult) string
}{
	{"Linguistic Analysis", func(r *core.EvaluationResult) string { return r.LinguisticAnalysis }},
	{"Memorability Distinctiveness", func(r *core.EvaluationResult) string { return r.MemorabilityDistinctiveness }},
	{"Relevance", func(r *core.EvaluationResult) string { return r.Relevance }},
	{"Availability Summary", func(r *core.EvaluationResult) string { return r.AvailabilitySummary }},
	{"Overall Score", func(r *core.EvaluationResult) string { return fmt.Sprintf("%d", r.OverallScore) }},
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func timestamp(clock func() time.Time) string {
	now := time.Now
	if clock != nil {
		now = clock
	}
	return now().Format("2006-01-02 15:04:05")
}

package report

import (
	"encoding/json"

	"github.com/brandscope/brandscope/internal/core"
)

// JSONFormatter emits the raw analysis payload for machine consumers.
type JSONFormatter struct {
	Indent bool
}

type jsonReport struct {
	BrandName  string               `json:"brand_name"`
	Research   *core.ResearchRecord `json:"research_data"`
	Evaluation *core.Evaluation     `json:"evaluation_data,omitempty"`
}

// Format renders one JSON report.
func (f *JSONFormatter) Format(input *Input) (string, error) {
	if input == nil || input.Research == nil {
		return "", ErrNoResearchData
	}

	payload := jsonReport{
		BrandName:  input.BrandName,
		Research:   input.Research,
		Evaluation: input.Evaluation,
	}

	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

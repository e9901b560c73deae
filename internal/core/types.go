package core

import "encoding/json"

// Lookup is the uniform success/error envelope returned by every external
// check. When Error is set, Data holds whatever partial or default value the
// check could produce.
type Lookup[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// OK wraps a successful check result.
func OK[T any](data T) Lookup[T] {
	return Lookup[T]{Data: data}
}

// Failed wraps a check result that carries an error alongside partial data.
func Failed[T any](data T, msg string) Lookup[T] {
	return Lookup[T]{Data: data, Error: msg}
}

// PlatformStatus classifies a brand's presence on a social platform.
type PlatformStatus string

const (
	PlatformUsedMentioned        PlatformStatus = "used_mentioned"
	PlatformPotentiallyAvailable PlatformStatus = "potentially_available_low_presence"
	PlatformCheckError           PlatformStatus = "check_error"
)

// DomainStatus classifies the registration state of a single domain.
type DomainStatus string

const (
	DomainTaken                DomainStatus = "taken"
	DomainPotentiallyAvailable DomainStatus = "potentially_available"
	DomainCheckError           DomainStatus = "check_error"
	DomainCheckErrorConnection DomainStatus = "check_error (connection)"
	DomainSkipped              DomainStatus = "skipped (lookup unavailable)"
)

// TrademarkOutcome classifies the trademark-site check result.
type TrademarkOutcome string

const (
	TrademarkConflictFound      TrademarkOutcome = "potential_conflict_found_on_site"
	TrademarkNoExactMatch       TrademarkOutcome = "no_exact_match_found_on_site"
	TrademarkCheckError         TrademarkOutcome = "check_error"
	TrademarkUnsupportedCountry TrademarkOutcome = "unsupported_country"
)

// WebLink is one web search result retained in the research record.
type WebLink struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// WebConflict flags a link whose title or domain contains the brand name.
type WebConflict struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// WebFindings summarizes the general web search check.
type WebFindings struct {
	Links     []WebLink     `json:"links"`
	Conflicts []WebConflict `json:"conflicts"`
	QueryUsed string        `json:"query_used"`
}

// PlatformStatusMap maps platform label to presence classification.
type PlatformStatusMap map[string]PlatformStatus

// DomainStatusMap maps a full domain name to its registration status.
type DomainStatusMap map[string]DomainStatus

// TrademarkStatus summarizes the trademark-site check.
type TrademarkStatus struct {
	Status          TrademarkOutcome `json:"status"`
	Details         []string         `json:"details,omitempty"`
	DatabaseChecked string           `json:"database_checked"`
	QueryUsed       string           `json:"query_used,omitempty"`
}

// ResearchRecord is the consolidated output of the research aggregator.
//
// Error is the first sub-result error in priority order (web, social,
// trademark, domain) and exists as a coarse signal; Errors carries the full
// list so callers can decide severity themselves.
type ResearchRecord struct {
	BrandName          string                    `json:"brand_name"`
	WebSearch          Lookup[WebFindings]       `json:"web_search"`
	SocialMediaSearch  Lookup[PlatformStatusMap] `json:"social_media_search"`
	TrademarkCheck     Lookup[TrademarkStatus]   `json:"trademark_check"`
	DomainAvailability Lookup[DomainStatusMap]   `json:"domain_availability"`
	Errors             []string                  `json:"errors,omitempty"`
	Error              string                    `json:"error,omitempty"`
}

// CollectErrors fills Errors and Error from the four sub-results.
func (r *ResearchRecord) CollectErrors() {
	r.Errors = nil
	r.Error = ""
	for _, msg := range []string{
		r.WebSearch.Error,
		r.SocialMediaSearch.Error,
		r.TrademarkCheck.Error,
		r.DomainAvailability.Error,
	} {
		if msg == "" {
			continue
		}
		r.Errors = append(r.Errors, msg)
		if r.Error == "" {
			r.Error = msg
		}
	}
}

// EvaluationResult holds the five fields the completion service must return.
type EvaluationResult struct {
	LinguisticAnalysis          string `json:"linguistic_analysis"`
	MemorabilityDistinctiveness string `json:"memorability_distinctiveness"`
	Relevance                   string `json:"relevance"`
	AvailabilitySummary         string `json:"availability_summary"`
	OverallScore                int    `json:"overall_score"`
}

// Evaluation is either a validated EvaluationResult or an error shape with
// the raw model response preserved for diagnosis. It serializes as exactly
// one of the two, matching what downstream consumers and the report expect.
type Evaluation struct {
	Result      *EvaluationResult
	Err         string
	RawResponse string
}

// Failed reports whether the evaluation carries an error instead of a result.
func (e *Evaluation) Failed() bool {
	return e == nil || e.Err != "" || e.Result == nil
}

type evaluationErrorShape struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

func (e Evaluation) MarshalJSON() ([]byte, error) {
	if e.Err != "" {
		return json.Marshal(evaluationErrorShape{Error: e.Err, RawResponse: e.RawResponse})
	}
	if e.Result != nil {
		return json.Marshal(e.Result)
	}
	return []byte("null"), nil
}

func (e *Evaluation) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = Evaluation{}
		return nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["error"]; ok {
		var shape evaluationErrorShape
		if err := json.Unmarshal(data, &shape); err != nil {
			return err
		}
		*e = Evaluation{Err: shape.Error, RawResponse: shape.RawResponse}
		return nil
	}
	var result EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	*e = Evaluation{Result: &result}
	return nil
}

// SessionContext is the analysis context persisted per session for follow-up
// question answering.
type SessionContext struct {
	ResearchData   *ResearchRecord `json:"research_data"`
	EvaluationData *Evaluation     `json:"evaluation_data,omitempty"`
	AnalyzedBrand  string          `json:"analyzed_brand"`
}

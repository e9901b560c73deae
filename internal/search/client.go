// Package search provides the web-search capability used by the research
// aggregator. The wire contract is the Brave web search API shape: a query
// plus result count in, an ordered list of {title, url, description} out.
package search

import "context"

// Client issues web search queries.
type Client interface {
	Search(ctx context.Context, query string, count int) (*Response, error)
}

// Response is the top-level search API response.
type Response struct {
	Web WebResults `json:"web"`
}

// WebResults holds the ordered web results for a query.
type WebResults struct {
	Results []Result `json:"results"`
}

// Result is a single web search hit.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

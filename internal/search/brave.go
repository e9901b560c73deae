package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.search.brave.com"

// DefaultTimeout bounds a single search call so a stalled dependency cannot
// hang an entire analysis request.
const DefaultTimeout = 15 * time.Second

// ErrMissingKey indicates the client was constructed without a credential.
var ErrMissingKey = errors.New("search api key is required")

// BraveClient talks to the Brave web search API.
type BraveClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewBraveClient builds a search client with an explicit credential.
func NewBraveClient(apiKey string) *BraveClient {
	return &BraveClient{APIKey: apiKey}
}

// Search issues one query and decodes the result list.
func (c *BraveClient) Search(ctx context.Context, query string, count int) (*Response, error) {
	if c == nil || c.APIKey == "" {
		return nil, ErrMissingKey
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if count <= 0 {
		count = 10
	}

	base, err := url.Parse(c.baseURL())
	if err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}
	endpoint := base.ResolveReference(&url.URL{Path: "/res/v1/web/search"})
	values := endpoint.Query()
	values.Set("q", query)
	values.Set("count", strconv.Itoa(count))
	endpoint.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.APIKey)

	client := c.Client
	if client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("search auth rejected (status %d)", resp.StatusCode)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("search rate limited (status %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected search response (status %d)", resp.StatusCode)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &decoded, nil
}

func (c *BraveClient) baseURL() string {
	if c != nil && c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}

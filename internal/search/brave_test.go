package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBraveClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/res/v1/web/search", r.URL.Path)
		require.Equal(t, `"Acme" brand OR company OR official website`, r.URL.Query().Get("q"))
		require.Equal(t, "10", r.URL.Query().Get("count"))
		require.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[{"title":"Acme Inc","url":"https://acme.com","description":"The Acme company."}]}}`))
	}))
	defer server.Close()

	client := &BraveClient{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}

	resp, err := client.Search(context.Background(), `"Acme" brand OR company OR official website`, 10)
	require.NoError(t, err)
	require.Len(t, resp.Web.Results, 1)
	require.Equal(t, "https://acme.com", resp.Web.Results[0].URL)
	require.Equal(t, "Acme Inc", resp.Web.Results[0].Title)
}

func TestBraveClientMissingKey(t *testing.T) {
	client := &BraveClient{}
	_, err := client.Search(context.Background(), "anything", 5)
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestBraveClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &BraveClient{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}

func TestBraveClientAuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := &BraveClient{APIKey: "bad-key", BaseURL: server.URL, Client: server.Client()}
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth rejected")
}

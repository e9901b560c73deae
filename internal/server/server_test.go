package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brandscope/brandscope/internal/core/checker"
	"github.com/brandscope/brandscope/internal/core/engine"
	"github.com/brandscope/brandscope/internal/core/research"
	"github.com/brandscope/brandscope/internal/llm"
	"github.com/brandscope/brandscope/internal/metrics"
	"github.com/brandscope/brandscope/internal/search"
	servermw "github.com/brandscope/brandscope/internal/server/middleware"
	"github.com/brandscope/brandscope/internal/session"
)

type searchFunc func(ctx context.Context, query string, count int) (*search.Response, error)

func (f searchFunc) Search(ctx context.Context, query string, count int) (*search.Response, error) {
	return f(ctx, query, count)
}

type lookupFunc func(ctx context.Context, domain string) (*checker.Registration, error)

func (f lookupFunc) Lookup(ctx context.Context, domain string) (*checker.Registration, error) {
	return f(ctx, domain)
}

type completerFunc func(ctx context.Context, req llm.Request) (string, error)

func (f completerFunc) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f(ctx, req)
}

const validEvaluationJSON = `{
	"linguistic_analysis": "a",
	"memorability_distinctiveness": "b",
	"relevance": "c",
	"availability_summary": "d",
	"overall_score": 6
}`

func newTestServer(t *testing.T, completer llm.Completer) *Server {
	t.Helper()

	sessions := session.NewMemoryStore(0)
	analyzer := &engine.Analyzer{
		Sessions: sessions,
		NewAggregator: func(creds session.Credentials) *research.Aggregator {
			return &research.Aggregator{
				Search: searchFunc(func(ctx context.Context, query string, count int) (*search.Response, error) {
					return &search.Response{}, nil
				}),
				Domains: lookupFunc(func(ctx context.Context, domain string) (*checker.Registration, error) {
					return nil, checker.ErrNoRecord
				}),
			}
		},
		NewCompleter: func(creds session.Credentials) (llm.Completer, error) {
			if completer == nil {
				return nil, llm.ErrNotConfigured
			}
			return completer, nil
		},
		Clock:   func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Metrics: metrics.New(),
	}

	return New(Config{Host: "127.0.0.1", Port: 0}, Deps{
		Analyzer: analyzer,
		Sessions: sessions,
		Metrics:  analyzer.Metrics,
	})
}

func postForm(t *testing.T, srv *Server, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t, completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return validEvaluationJSON, nil
	}))

	rec := postForm(t, srv, "/analyze", url.Values{"brand_name": {"Acme"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, "true", string(body["success"]))
	require.JSONEq(t, `"Acme"`, string(body["brand_name"]))
	require.Contains(t, body, "research_data")
	require.Contains(t, body, "evaluation_data")
	require.Contains(t, string(body["report_markdown"]), "Brand Analysis Report: Acme")

	// A session cookie is assigned on first contact.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, servermw.SessionCookieName, cookies[0].Name)
}

func TestAnalyzeEndpointMissingBrand(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postForm(t, srv, "/analyze", url.Values{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, "false", string(body["success"]))
	require.JSONEq(t, `"Missing Input"`, string(body["error"]))
}

func TestAnalyzeEndpointResearchAbort(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postForm(t, srv, "/analyze", url.Values{"brand_name": {"!!!"}}, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, `"Market Research Failed"`, string(body["error"]))
}

func TestAnalyzeEndpointUninitialized(t *testing.T) {
	srv := New(Config{}, Deps{Sessions: session.NewMemoryStore(0), Metrics: metrics.New()})

	rec := postForm(t, srv, "/analyze", url.Values{"brand_name": {"Acme"}}, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, `"Service Initialization Error"`, string(body["error"]))
}

func TestQAEndpointMissingContext(t *testing.T) {
	srv := newTestServer(t, completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "unused", nil
	}))

	rec := postForm(t, srv, "/qa", url.Values{"question": {"How are the domains?"}}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, `"Missing Context"`, string(body["error"]))
}

func TestQAEndpointMissingQuestion(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postForm(t, srv, "/qa", url.Values{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, `"Missing Input"`, string(body["error"]))
}

func TestQAEndpointAfterAnalyze(t *testing.T) {
	srv := newTestServer(t, completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		if req.JSONMode {
			return validEvaluationJSON, nil
		}
		return "Every domain looked available.", nil
	}))

	analyzeRec := postForm(t, srv, "/analyze", url.Values{"brand_name": {"Acme"}}, nil)
	require.Equal(t, http.StatusOK, analyzeRec.Code)
	cookies := analyzeRec.Result().Cookies()

	qaRec := postForm(t, srv, "/qa", url.Values{"question": {"How did the domains look?"}}, cookies)
	require.Equal(t, http.StatusOK, qaRec.Code)

	body := decodeBody(t, qaRec)
	require.JSONEq(t, "true", string(body["success"]))
	require.JSONEq(t, `"Every domain looked available."`, string(body["answer"]))
}

func TestQAEndpointContextIsPerSession(t *testing.T) {
	srv := newTestServer(t, completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		if req.JSONMode {
			return validEvaluationJSON, nil
		}
		return "An answer.", nil
	}))

	analyzeRec := postForm(t, srv, "/analyze", url.Values{"brand_name": {"Acme"}}, nil)
	require.Equal(t, http.StatusOK, analyzeRec.Code)

	// A different session (no cookie) sees no context.
	qaRec := postForm(t, srv, "/qa", url.Values{"question": {"Anything?"}}, nil)
	require.Equal(t, http.StatusBadRequest, qaRec.Code)
	body := decodeBody(t, qaRec)
	require.JSONEq(t, `"Missing Context"`, string(body["error"]))
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	// Establish a session first.
	getRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, getRec.Code)
	body := decodeBody(t, getRec)
	require.JSONEq(t, "false", string(body["openai_key_set"]))
	cookies := getRec.Result().Cookies()
	require.NotEmpty(t, cookies)

	postReq := httptest.NewRequest(http.MethodPost, "/api/settings",
		strings.NewReader(`{"openai_key": "sk-test", "search_key": "brave-test"}`))
	postReq.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		postReq.AddCookie(cookie)
	}
	postRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(postRec, postReq)
	require.Equal(t, http.StatusOK, postRec.Code)

	statusReq := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	for _, cookie := range cookies {
		statusReq.AddCookie(cookie)
	}
	statusRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(statusRec, statusReq)
	body = decodeBody(t, statusRec)
	require.JSONEq(t, "true", string(body["openai_key_set"]))
	require.JSONEq(t, "true", string(body["search_key_set"]))

	// Empty values clear the overrides.
	clearReq := httptest.NewRequest(http.MethodPost, "/api/settings",
		strings.NewReader(`{"openai_key": "", "search_key": ""}`))
	clearReq.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		clearReq.AddCookie(cookie)
	}
	clearRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(clearRec, clearReq)
	require.Equal(t, http.StatusOK, clearRec.Code)

	finalReq := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	for _, cookie := range cookies {
		finalReq.AddCookie(cookie)
	}
	finalRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(finalRec, finalReq)
	body = decodeBody(t, finalRec)
	require.JSONEq(t, "false", string(body["openai_key_set"]))
}

func TestSettingsEndpointInvalidBody(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndVersionEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.JSONEq(t, `"brandscope"`, string(body["name"]))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	postForm(t, srv, "/analyze", url.Values{"brand_name": {"Acme"}}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "brandscope_analyses_total")
}

func TestUnknownRouteEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	require.JSONEq(t, "false", string(body["success"]))
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/generate"
	"github.com/c360studio/lode/ontology"
	"github.com/c360studio/lode/source"
	"github.com/c360studio/lode/source/weburl"
)

const pizzaTurtle = `@prefix : <http://example.org/pizza#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix dcterms: <http://purl.org/dc/terms/> .

<http://example.org/pizza> a owl:Ontology ;
    dcterms:title "Pizza Ontology"@en .

:Pizza a owl:Class ;
    rdfs:label "Pizza"@en , "Pizza"@fr .
`

type countingGenerator struct {
	next  Generator
	calls atomic.Int32
}

func (g *countingGenerator) Generate(ctx context.Context, req generate.Request) (*generate.Output, error) {
	g.calls.Add(1)
	return g.next.Generate(ctx, req)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns a server backed by the real pipeline and an origin
// serving body with contentType and status.
func newTestServer(t *testing.T, opts Options, status int, contentType, body string) (*Server, *countingGenerator, string) {
	t.Helper()
	return newOriginServer(t, opts, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}), nil)
}

// newOriginServer returns a server backed by the real pipeline and origin.
// tweak, when set, adjusts the configuration before the pipeline is built.
func newOriginServer(t *testing.T, opts Options, origin http.Handler, tweak func(*config.Config)) (*Server, *countingGenerator, string) {
	t.Helper()
	ts := httptest.NewServer(origin)
	t.Cleanup(ts.Close)

	cfg := config.DefaultConfig()
	cfg.Fetch.MaxRetries = 0
	if tweak != nil {
		tweak(cfg)
	}
	pipeline, err := generate.New(cfg, testLogger())
	require.NoError(t, err)
	gen := &countingGenerator{next: pipeline}

	srv, err := New(gen, cfg, opts, testLogger())
	require.NoError(t, err)
	return srv, gen, ts.URL + "/pizza"
}

// slowOrigin answers with pizzaTurtle after delay unless the client gives up.
func slowOrigin(delay time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(delay):
		}
		w.Header().Set("Content-Type", "text/turtle")
		_, _ = w.Write([]byte(pizzaTurtle))
	})
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func renderURL(ontologyURL string, params ...string) string {
	q := url.Values{"url": {ontologyURL}}
	for i := 0; i+1 < len(params); i += 2 {
		q.Set(params[i], params[i+1])
	}
	return "/?" + q.Encode()
}

func TestRenderHTMLIsCached(t *testing.T) {
	srv, gen, onto := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	first := get(t, srv.Handler(), renderURL(onto), nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", first.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Contains(t, first.Body.String(), "Pizza Ontology")

	second := get(t, srv.Handler(), renderURL(onto), nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), gen.calls.Load())

	third := get(t, srv.Handler(), renderURL(onto, "lang", "fr"), nil)
	require.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestRenderMarkdown(t *testing.T) {
	srv, _, onto := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	rec := get(t, srv.Handler(), renderURL(onto, "format", "md", "lang", "it"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "# Pizza Ontology")
	assert.Contains(t, rec.Body.String(), "## Classi")
}

func TestRenderSerializations(t *testing.T) {
	srv, _, onto := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"ttl", "text/turtle", "@prefix owl:"},
		{"turtle", "text/turtle", "@prefix owl:"},
		{"nt", "application/n-triples", "<http://example.org/pizza#Pizza>"},
		{"jsonld", "application/ld+json", `"@context"`},
		{"rdf", "application/rdf+xml", "<rdf:RDF"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := get(t, srv.Handler(), renderURL(onto, "format", tt.format), nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.contentType))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestRenderBadRequests(t *testing.T) {
	srv, gen, onto := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	tests := []struct {
		name   string
		target string
	}{
		{"missing url", "/"},
		{"unsupported scheme", renderURL("ftp://example.org/onto.ttl")},
		{"unknown format", renderURL(onto, "format", "pdf")},
		{"unknown language", renderURL(onto, "lang", "es")},
		{"unknown theme", renderURL(onto, "theme", "dark")},
		{"bad boolean", renderURL(onto, "reasoning", "maybe")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, gen.calls.Load())
}

func TestRenderBlocksPrivateAddresses(t *testing.T) {
	srv, gen, onto := newTestServer(t, Options{BlockPrivate: true}, http.StatusOK, "text/turtle", pizzaTurtle)

	rec := get(t, srv.Handler(), renderURL(onto), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not allowed")
	assert.Zero(t, gen.calls.Load())
}

func TestRenderUpstreamFailures(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		srv, _, onto := newTestServer(t, Options{}, http.StatusNotFound, "text/plain", "not found")
		rec := get(t, srv.Handler(), renderURL(onto), nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("parse failure", func(t *testing.T) {
		srv, _, onto := newTestServer(t, Options{}, http.StatusOK, "text/turtle", "this is not rdf")
		rec := get(t, srv.Handler(), renderURL(onto), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	})
}

func TestRenderTimeouts(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*config.Config)
		delay time.Duration
	}{
		{
			name: "upstream timeout",
			tweak: func(cfg *config.Config) {
				cfg.Fetch.Timeout = 50 * time.Millisecond
			},
			delay: 300 * time.Millisecond,
		},
		{
			name: "request deadline",
			tweak: func(cfg *config.Config) {
				cfg.Fetch.Timeout = 5 * time.Second
				cfg.Server.RequestTimeout = 100 * time.Millisecond
			},
			delay: 2 * time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, onto := newOriginServer(t, Options{}, slowOrigin(tt.delay), tt.tweak)

			start := time.Now()
			rec := get(t, srv.Handler(), renderURL(onto), nil)
			assert.Equal(t, http.StatusGatewayTimeout, rec.Code, rec.Body.String())
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Empty(t, rec.Header().Get("X-Cache"))
		})
	}
}

func TestRequestHeadersKeepCanonicalKeys(t *testing.T) {
	srv, _, _ := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	id := uuid.New().String()
	rec := get(t, srv.Handler(), "/healthz", http.Header{"x-request-id": {id}})
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestRequestID(t *testing.T) {
	srv, _, _ := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	id := uuid.New().String()
	rec := get(t, srv.Handler(), "/healthz", http.Header{RequestIDHeader: {id}})
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	rec = get(t, srv.Handler(), "/healthz", http.Header{RequestIDHeader: {"not-a-uuid"}})
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "not-a-uuid", generated)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	rec := get(t, srv.Handler(), "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["cached_pages"])
}

func TestMetrics(t *testing.T) {
	srv, _, onto := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	get(t, srv.Handler(), renderURL(onto), nil)
	get(t, srv.Handler(), renderURL(onto), nil)

	rec := get(t, srv.Handler(), "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lode_http_requests_total{code="200",route="render"} 2`)
	assert.Contains(t, body, `lode_page_cache_requests_total{result="hit"} 1`)
	assert.Contains(t, body, `lode_page_cache_requests_total{result="miss"} 1`)
	assert.Contains(t, body, `lode_generations_total{format="html",outcome="ok"} 1`)
	assert.Contains(t, body, "lode_page_cache_entries 1")
	assert.Contains(t, body, "lode_http_request_duration_seconds_bucket")
}

func TestUnknownPath(t *testing.T) {
	srv, _, _ := newTestServer(t, Options{}, http.StatusOK, "text/turtle", pizzaTurtle)

	rec := get(t, srv.Handler(), "/favicon.ico", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("fetch: %w", weburl.ErrInvalidURL), http.StatusBadRequest},
		{fmt.Errorf("process: %w", ontology.ErrParseFailed), http.StatusUnprocessableEntity},
		{fmt.Errorf("fetch: %w", source.ErrFetchFailed), http.StatusBadGateway},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{&source.FetchError{Attempts: []error{fmt.Errorf("fetch: %w", source.ErrFetchTimeout)}}, http.StatusGatewayTimeout},
		{&source.FetchError{Attempts: []error{errors.New("HTTP 404: Not Found")}}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/source/weburl"
)

const turtleBody = "@prefix owl: <http://www.w3.org/2002/07/owl#> .\n<http://example.org/onto> a owl:Ontology .\n"

func testFetchConfig() config.FetchConfig {
	cfg := config.DefaultConfig().Fetch
	cfg.Timeout = 5 * time.Second
	cfg.CacheSize = 0
	return cfg
}

func newTestFetcher(cfg config.FetchConfig) *Fetcher {
	return NewFetcher(cfg, WithBackoff(time.Millisecond))
}

func TestFetchURLNegotiatesMIMEType(t *testing.T) {
	var mu sync.Mutex
	var accepts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		accepts = append(accepts, r.Header.Get("Accept"))
		mu.Unlock()

		assert.Equal(t, "LODE Go extractor", r.Header.Get("User-Agent"))
		if r.Header.Get("Accept") != "text/turtle" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
		_, _ = w.Write([]byte(turtleBody))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(testFetchConfig()).FetchURL(context.Background(), srv.URL+"/onto")
	require.NoError(t, err)

	assert.Equal(t, rdf.FormatTurtle, doc.Format)
	assert.Equal(t, turtleBody, doc.Content)
	assert.Equal(t, srv.URL+"/onto", doc.Source)
	assert.True(t, doc.IsRemote())
	assert.Equal(t, []string{"application/rdf+xml", "text/turtle"}, accepts)
}

func TestFetchURLDetectsFormatFromContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(turtleBody))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(testFetchConfig()).FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, rdf.FormatTurtle, doc.Format)
}

func TestFetchURLRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/rdf+xml")
		_, _ = w.Write([]byte("<rdf:RDF/>"))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(testFetchConfig()).FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, rdf.FormatXML, doc.Format)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchURLReportsEveryAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(testFetchConfig()).FetchURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.Contains(t, err.Error(), "MIME type application/rdf+xml: HTTP 404")
	assert.Contains(t, err.Error(), "MIME type */*")
	assert.Contains(t, err.Error(), "Final attempt: HTTP 404")
	// 404 is not retried: one request per MIME type plus the final attempt.
	assert.Equal(t, int32(len(rdf.AcceptTypes)+1), calls.Load())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, srv.URL, fetchErr.URL)
	assert.Len(t, fetchErr.Attempts, len(rdf.AcceptTypes)+1)
	assert.False(t, errors.Is(err, ErrFetchTimeout))
}

func TestFetchURLMarksTimeouts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.MaxRetries = 0

	_, err := newTestFetcher(cfg).FetchURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
	assert.True(t, errors.Is(err, ErrFetchTimeout))
	assert.Contains(t, err.Error(), "Final attempt:")
}

func TestFetchURLFinalAttemptWithoutAccept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		_, _ = w.Write([]byte(turtleBody))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(testFetchConfig()).FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, turtleBody, doc.Content)
}

func TestFetchURLCachesDocuments(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/rdf+xml")
		_, _ = w.Write([]byte("<rdf:RDF/>"))
	}))
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.CacheSize = 4
	f := newTestFetcher(cfg)

	first, err := f.FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)
	second, err := f.FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchURLContentTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(turtleBody))
	}))
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.MaxContentSize = 10
	_, err := newTestFetcher(cfg).FetchURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content too large")
}

func TestFetchURLBlocksPrivateAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.BlockPrivate = true
	_, err := newTestFetcher(cfg).FetchURL(context.Background(), srv.URL)
	assert.ErrorIs(t, err, weburl.ErrInvalidURL)
}

func TestFetchURLHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(testFetchConfig()).FetchURL(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchDispatchesOnScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "onto.ttl")
	require.NoError(t, os.WriteFile(path, []byte(turtleBody), 0644))

	doc, err := newTestFetcher(testFetchConfig()).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, rdf.FormatTurtle, doc.Format)
	assert.False(t, doc.IsRemote())
}

// Package server renders ontology documentation over HTTP.
//
// Routes:
//
//	GET /?url=<ontology>&format=&lang=&theme=&reasoning=&imports=&closure=
//	GET /healthz
//	GET /metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/export"
	"github.com/c360studio/lode/generate"
	"github.com/c360studio/lode/ontology"
	"github.com/c360studio/lode/render"
	"github.com/c360studio/lode/source"
	"github.com/c360studio/lode/source/weburl"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Generator produces documentation for a request.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Output, error)
}

// Options configure a Server.
type Options struct {
	// BlockPrivate rejects URLs on loopback and private networks.
	BlockPrivate bool
}

type page struct {
	content     []byte
	contentType string
}

// Server serves rendered documentation pages.
type Server struct {
	gen      Generator
	cfg      *config.Config
	opts     Options
	cache    *lru.Cache[string, page]
	registry *prometheus.Registry
	metrics  *metrics
	logger   *slog.Logger
	handler  http.Handler
}

// New creates a server. cfg supplies render defaults, the cache size and
// the HTTP timeouts.
func New(gen Generator, cfg *config.Config, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		gen:      gen,
		cfg:      cfg,
		opts:     opts,
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	if cfg.Server.CacheSize > 0 {
		cache, err := lru.New[string, page](cfg.Server.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create page cache: %w", err)
		}
		s.cache = cache
	}
	s.metrics = newMetrics(s.registry, s.cacheLen)

	mux := http.NewServeMux()
	mux.Handle("/", s.instrument("render", http.HandlerFunc(s.handleRender)))
	mux.Handle("/healthz", s.instrument("healthz", http.HandlerFunc(s.handleHealth)))
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.handler = s.withRequestID(mux)
	return s, nil
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on cfg.Server.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving documentation", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// renderRequest is a parsed GET / query.
type renderRequest struct {
	url       string
	format    string
	lang      string
	theme     string
	reasoning bool
	imports   bool
	closure   bool
}

func (r renderRequest) cacheKey() string {
	return strings.Join([]string{
		r.url, r.format, r.lang, r.theme,
		strconv.FormatBool(r.reasoning), strconv.FormatBool(r.imports), strconv.FormatBool(r.closure),
	}, "|")
}

// serialization reports whether format names a graph serialization rather
// than a documentation page.
func serialization(format string) (export.Format, bool) {
	if format == render.FormatHTML || format == render.FormatMarkdown {
		return "", false
	}
	f, err := export.ParseFormat(format)
	return f, err == nil
}

func (s *Server) parseRequest(r *http.Request) (renderRequest, error) {
	q := r.URL.Query()
	req := renderRequest{
		url:    strings.TrimSpace(q.Get("url")),
		format: strings.ToLower(q.Get("format")),
		lang:   strings.ToLower(q.Get("lang")),
		theme:  strings.ToLower(q.Get("theme")),
	}
	if req.url == "" {
		return req, errors.New("missing url parameter")
	}
	if err := weburl.Validate(req.url, s.opts.BlockPrivate); err != nil {
		return req, err
	}

	if req.format == "" {
		req.format = s.cfg.Render.Format
	}
	if req.format == "md" {
		req.format = render.FormatMarkdown
	}
	if ser, ok := serialization(req.format); ok {
		req.format = string(ser)
	} else if !slices.Contains(config.Formats, req.format) {
		return req, fmt.Errorf("unsupported format %q", req.format)
	}
	if req.lang == "" {
		req.lang = s.cfg.Render.Lang
	}
	if !slices.Contains(config.Languages, req.lang) {
		return req, fmt.Errorf("unsupported language %q", req.lang)
	}
	if req.theme == "" {
		req.theme = s.cfg.Render.Theme
	}
	if !slices.Contains(config.Themes, req.theme) {
		return req, fmt.Errorf("unsupported theme %q", req.theme)
	}

	var err error
	if req.reasoning, err = boolParam(q.Get("reasoning"), s.cfg.Process.Reasoning); err != nil {
		return req, fmt.Errorf("reasoning: %w", err)
	}
	if req.imports, err = boolParam(q.Get("imports"), s.cfg.Process.Imports); err != nil {
		return req, fmt.Errorf("imports: %w", err)
	}
	if req.closure, err = boolParam(q.Get("closure"), s.cfg.Process.Closure); err != nil {
		return req, fmt.Errorf("closure: %w", err)
	}
	return req, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := req.cacheKey()
	if s.cache != nil {
		if p, ok := s.cache.Get(key); ok {
			s.metrics.cache.WithLabelValues("hit").Inc()
			writePage(w, p, "HIT")
			return
		}
		s.metrics.cache.WithLabelValues("miss").Inc()
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Server.RequestTimeout)
	defer cancel()

	p, err := s.generate(ctx, req)
	if err != nil {
		s.metrics.generations.WithLabelValues(req.format, "error").Inc()
		status := errorStatus(err)
		s.logger.Warn("Generation failed",
			slog.String("request_id", w.Header().Get(RequestIDHeader)),
			slog.String("url", req.url),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		http.Error(w, err.Error(), status)
		return
	}
	s.metrics.generations.WithLabelValues(req.format, "ok").Inc()

	if s.cache != nil {
		s.cache.Add(key, p)
	}
	writePage(w, p, "MISS")
}

func (s *Server) generate(ctx context.Context, req renderRequest) (page, error) {
	pageFormat := req.format
	ser, isSerialization := serialization(req.format)
	if isSerialization {
		pageFormat = s.cfg.Render.Format
	}

	out, err := s.gen.Generate(ctx, generate.Request{
		Source: req.url,
		Process: ontology.ProcessingOptions{
			UseReasoning:   req.reasoning,
			IncludeImports: req.imports,
			IncludeClosure: req.closure,
			MaxImportDepth: s.cfg.Process.MaxImportDepth,
		},
		Render: render.Options{
			Format:      pageFormat,
			Lang:        req.lang,
			Theme:       req.theme,
			CSSLocation: s.cfg.Render.CSSLocation,
		},
	})
	if err != nil {
		return page{}, err
	}

	if !isSerialization {
		return page{content: out.Content, contentType: render.ContentType(out.Format)}, nil
	}
	data, err := out.Serialize(ser)
	if err != nil {
		return page{}, err
	}
	info, _ := export.GetFormatInfo(ser)
	return page{content: data, contentType: info.MIMEType + "; charset=utf-8"}, nil
}

func writePage(w http.ResponseWriter, p page, cache string) {
	w.Header().Set("Content-Type", p.contentType)
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.content)
}

// errorStatus maps a generation error to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, weburl.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, ontology.ErrParseFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, source.ErrFetchTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, source.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cached_pages": s.cacheLen(),
	})
}

func (s *Server) cacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// withRequestID propagates or assigns an X-Request-ID.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.Debug("Handled request",
			slog.String("request_id", w.Header().Get(RequestIDHeader)),
			slog.String("route", route),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", elapsed))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Response is already partially written on failure.
	_ = json.NewEncoder(w).Encode(v)
}

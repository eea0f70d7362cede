package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/source/weburl"
)

var (
	// ErrFetchFailed is returned when no negotiated or plain request succeeds.
	ErrFetchFailed = errors.New("unable to fetch ontology from URL")
	// ErrFetchTimeout marks an attempt that timed out.
	ErrFetchTimeout = errors.New("fetch timed out")
)

// FetchError reports every failed attempt of a FetchURL call. It matches
// ErrFetchFailed and each attempt's error with errors.Is.
type FetchError struct {
	URL      string
	Attempts []error
}

func (e *FetchError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrFetchFailed.Error())
	sb.WriteString(". Errors:")
	for _, a := range e.Attempts {
		sb.WriteString("\n  - ")
		sb.WriteString(a.Error())
	}
	return sb.String()
}

func (e *FetchError) Unwrap() []error {
	return append([]error{ErrFetchFailed}, e.Attempts...)
}

// retryableStatus lists the HTTP statuses that are retried with backoff.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Fetcher retrieves ontology documents over HTTP with content negotiation
// and from local files.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
	maxRetries     int
	backoff        time.Duration
	blockPrivate   bool
	cache          *lru.Cache[string, *Document]
	logger         *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBackoff sets the base delay between retries. The delay doubles on
// every retry.
func WithBackoff(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.backoff = d }
}

// WithLogger sets the fetcher's logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a fetcher from the fetch configuration.
func NewFetcher(cfg config.FetchConfig, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		userAgent:      cfg.UserAgent,
		maxContentSize: cfg.MaxContentSize,
		maxRetries:     cfg.MaxRetries,
		backoff:        time.Second,
		blockPrivate:   cfg.BlockPrivate,
		logger:         slog.Default(),
	}
	if f.maxContentSize <= 0 {
		f.maxContentSize = config.DefaultConfig().Fetch.MaxContentSize
	}
	if cfg.CacheSize > 0 {
		// lru.New only fails on a non-positive size.
		f.cache, _ = lru.New[string, *Document](cfg.CacheSize)
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = newHTTPClient(cfg.Timeout, cfg.BlockPrivate)
	return f
}

func newHTTPClient(timeout time.Duration, blockPrivate bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	if blockPrivate {
		// Validate resolved IPs to prevent DNS rebinding.
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, fmt.Errorf("invalid address: %w", err)
			}

			ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
			if err != nil {
				return nil, fmt.Errorf("DNS lookup failed: %w", err)
			}

			for _, ipAddr := range ips {
				if weburl.IsPrivateIP(ipAddr.IP) {
					return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
				}
			}

			for _, ipAddr := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ipAddr.IP.String(), port))
				if err == nil {
					return conn, nil
				}
			}

			return nil, fmt.Errorf("failed to connect to any resolved IP")
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects (max 10)")
			}
			if err := weburl.Validate(req.URL.String(), blockPrivate); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}
}

// Fetch reads source as a URL when it has an http or https scheme and as a
// local file otherwise.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Document, error) {
	if weburl.IsHTTP(source) {
		return f.FetchURL(ctx, source)
	}
	return FetchFile(source)
}

// FetchURL fetches an ontology, offering each RDF MIME type in turn as the
// Accept header. The first successful response wins. When every negotiated
// request fails a final request without Accept is made.
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (*Document, error) {
	if err := weburl.Validate(rawURL, f.blockPrivate); err != nil {
		return nil, err
	}

	if f.cache != nil {
		if doc, ok := f.cache.Get(rawURL); ok {
			f.logger.Debug("Fetch cache hit", slog.String("url", rawURL))
			return doc, nil
		}
	}

	var attempts []error
	for _, mime := range rdf.AcceptTypes {
		doc, err := f.get(ctx, rawURL, mime)
		if err == nil {
			f.remember(rawURL, doc)
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Debug("Fetch attempt failed",
			slog.String("url", rawURL),
			slog.String("accept", mime),
			slog.String("error", err.Error()))
		attempts = append(attempts, fmt.Errorf("MIME type %s: %w", mime, err))
	}

	doc, err := f.get(ctx, rawURL, "")
	if err == nil {
		f.remember(rawURL, doc)
		return doc, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	attempts = append(attempts, fmt.Errorf("Final attempt: %w", err))
	return nil, &FetchError{URL: rawURL, Attempts: attempts}
}

func (f *Fetcher) remember(key string, doc *Document) {
	if f.cache != nil {
		f.cache.Add(key, doc)
	}
}

// get performs one logical request, retrying transport errors and
// retryable statuses with exponential backoff.
func (f *Fetcher) get(ctx context.Context, rawURL, accept string) (*Document, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		doc, retry, err := f.do(ctx, rawURL, accept)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

// classify marks network timeouts with ErrFetchTimeout.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrFetchTimeout, err)
	}
	return err
}

func (f *Fetcher) do(ctx context.Context, rawURL, accept string) (doc *Document, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("fetch: %w", classify(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, retryableStatus[resp.StatusCode], fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxContentSize+1))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", classify(err))
	}
	if int64(len(body)) > f.maxContentSize {
		return nil, false, fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize)
	}

	content, err := decodeText(body)
	if err != nil {
		return nil, false, err
	}

	contentType := resp.Header.Get("Content-Type")
	format := rdf.FormatFromMIME(contentType)
	if format == "" {
		format = rdf.DetectFormat(content)
	}

	return &Document{
		Source:      rawURL,
		Content:     content,
		Format:      format,
		ContentType: contentType,
	}, false, nil
}

package pipeline

import (
	"bytes"
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/regulqa/internal/cache"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/util"
	"github.com/ppiankov/regulqa/internal/worker"
	"go.uber.org/zap"
)

const fetchMaxAttempts = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids a download
var ErrDisallowed = errors.New("disallowed by robots.txt")

// StatusError is a non-2xx HTTP response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Fetcher downloads source documents
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	cache      cache.Cache
	rootCAs    *x509.CertPool
	logger     *zap.Logger
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithLimiter throttles downloads per host
func WithLimiter(l *worker.Limiter) FetcherOption {
	return func(f *Fetcher) { f.limiter = l }
}

// WithCache serves repeated downloads from c
func WithCache(c cache.Cache) FetcherOption {
	return func(f *Fetcher) { f.cache = c }
}

// WithRootCAs trusts roots instead of the system certificate pool
func WithRootCAs(roots *x509.CertPool) FetcherOption {
	return func(f *Fetcher) { f.rootCAs = roots }
}

// WithLogger sets the fetcher's logger
func WithLogger(l *zap.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher from the HTTP settings
func NewFetcher(cfg model.HTTPConfig, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.httpClient = util.NewHTTPClient(cfg, f.rootCAs)
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(f.httpClient, cfg.UserAgent)
	}
	return f
}

// FetchResult is one downloaded document
type FetchResult struct {
	Body        []byte
	ContentType string
	FinalURL    string
	FromCache   bool
}

// Fetch performs a single GET of rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	reader := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:        body,
		ContentType: strings.ToLower(resp.Header.Get("Content-Type")),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures up to three attempts, sleeping
// 2s, then 4s between them
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == fetchMaxAttempts-1 {
			break
		}

		f.logger.Warn("fetch attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		fetchSleepFunc(time.Duration(2*(attempt+1)) * time.Second)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// isRetryableFetchError reports whether err is worth another attempt:
// 5xx and 429 responses and network failures are, everything else is not
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Download describes the outcome of one FetchSource call
type Download struct {
	Name    string
	Path    string
	Skipped bool // file already present and skipExisting set
	Cached  bool // served from the fetch cache
}

// FetchSource downloads src into outDir as "<name><ext>". With skipExisting
// an already present file is kept and reported as skipped.
func (f *Fetcher) FetchSource(ctx context.Context, src Source, outDir string, skipExisting bool) (*Download, error) {
	// 1. Skip before touching the network when the extension is known upfront
	if skipExisting {
		ext := forcedExt(src.Type)
		if ext == "" && autoType(src.Type) {
			ext = urlExt(src.URL)
		}
		if path := filepath.Join(outDir, src.Name+ext); ext != "" && fileExists(path) {
			return &Download{Name: src.Name, Path: path, Skipped: true}, nil
		}
	}

	// 2. Download, from cache when possible
	result, err := f.download(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	// 3. Name the file after the detected format
	ext := DetectExt(src.URL, result.ContentType, src.Type, result.Body)
	path := filepath.Join(outDir, src.Name+ext)
	if skipExisting && fileExists(path) {
		return &Download{Name: src.Name, Path: path, Skipped: true, Cached: result.FromCache}, nil
	}

	if err := util.WriteFileAtomic(path, result.Body, 0o644); err != nil {
		return nil, fmt.Errorf("save %s: %w", src.Name, err)
	}

	f.logger.Info("source downloaded",
		zap.String("name", src.Name),
		zap.String("path", path),
		zap.Int("bytes", len(result.Body)),
		zap.Bool("cached", result.FromCache))

	return &Download{Name: src.Name, Path: path, Cached: result.FromCache}, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (*FetchResult, error) {
	if entry, ok := cache.GetEntry(f.cache, rawURL); ok {
		return &FetchResult{Body: entry.Body, ContentType: entry.ContentType, FinalURL: entry.URL, FromCache: true}, nil
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if f.limiter != nil && delay > 0 {
			if u, err := url.Parse(rawURL); err == nil {
				f.limiter.SetCrawlDelay(u.Host, delay)
			}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	entry := &cache.Entry{URL: rawURL, ContentType: result.ContentType, Body: result.Body, FetchedAt: time.Now().UTC()}
	if err := cache.PutEntry(f.cache, entry, 0); err != nil {
		f.logger.Warn("cache write failed", zap.String("url", rawURL), zap.Error(err))
	}

	return result, nil
}

// DetectExt picks the file extension of a download: a forced type wins, then
// the Content-Type, then the URL suffix, then PDF magic bytes, else .html.
// An unknown forced type skips straight to the magic bytes.
func DetectExt(rawURL, contentType, forcedType string, body []byte) string {
	if ext := forcedExt(forcedType); ext != "" {
		return ext
	}

	if autoType(forcedType) {
		ct := strings.ToLower(contentType)
		switch {
		case strings.Contains(ct, "pdf"):
			return ".pdf"
		case strings.Contains(ct, "html"):
			return ".html"
		case strings.Contains(ct, "text/plain"):
			return ".txt"
		}

		if ext := urlExt(rawURL); ext != "" {
			return ext
		}
	}

	if bytes.HasPrefix(body, []byte("%PDF")) {
		return ".pdf"
	}
	return ".html"
}

func forcedExt(forcedType string) string {
	switch strings.ToLower(strings.TrimSpace(forcedType)) {
	case "pdf":
		return ".pdf"
	case "html":
		return ".html"
	case "txt":
		return ".txt"
	}
	return ""
}

// autoType reports whether the source leaves format detection to the response
func autoType(forcedType string) bool {
	t := strings.ToLower(strings.TrimSpace(forcedType))
	return t == "" || t == "auto"
}

func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.ToLower(u.Path)
	for _, ext := range []string{".pdf", ".html", ".htm", ".txt"} {
		if strings.HasSuffix(path, ext) {
			if ext == ".htm" {
				return ".html"
			}
			return ext
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

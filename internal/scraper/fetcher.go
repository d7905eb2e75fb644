package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"

// Fetcher is the injected fetch capability: URL in, page markup out.
// Implementations own their timeouts; the orchestration above them never
// retries a candidate, it just moves on to the next one.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches pages over plain HTTP with a browser user agent and
// a polite per-host rate limit.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	limiters  map[string]*rate.Limiter
	fallback  *rate.Limiter
}

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
	// RateLimiters throttles requests per host; hosts not listed share
	// the default limiter.
	RateLimiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates an HTTP fetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	limiters := make(map[string]*rate.Limiter, len(opts.RateLimiters))
	for host, l := range opts.RateLimiters {
		limiters[host] = l
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent: opts.UserAgent,
		limiters:  limiters,
		fallback:  rate.NewLimiter(4, 4),
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return f.fallback
	}
	if l, ok := f.limiters[u.Host]; ok {
		return l
	}
	return f.fallback
}

// Fetch performs a single GET and returns the response body. A non-2xx
// status is an error; the caller decides whether to try another candidate.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
		return "", eris.Wrapf(err, "scraper: rate wait %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrapf(err, "scraper: build request %s", rawURL)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "scraper: fetch %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Errorf("scraper: fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrapf(err, "scraper: read body %s", rawURL)
	}
	return string(body), nil
}

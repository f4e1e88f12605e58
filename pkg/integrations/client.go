package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/trustscore/pkg/buildinfo"
	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/httputil"
	"github.com/matzehuels/trustscore/pkg/observability"
)

const (
	// DefaultRevalidateAfter is how old a cached entry may get before the
	// client revalidates it with a conditional GET.
	DefaultRevalidateAfter = 10 * time.Minute

	// DefaultRetries and DefaultRetryDelay bound retries of transient failures.
	DefaultRetries    = 3
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxBodyBytes bounds a response body.
	DefaultMaxBodyBytes = 16 << 20
)

// Response is the body of a GET together with where it came from.
type Response struct {
	Body []byte
	// Cached is true when no request was sent or the server answered 304.
	Cached bool
	// Stale is true when the server could not be reached or refused the
	// request and an older cached body was reused instead.
	Stale bool
}

// Client provides shared HTTP functionality for all source API clients.
// It handles caching, conditional requests, retry logic, and common headers.
type Client struct {
	http            *http.Client
	cache           cache.Cache
	keyer           cache.Keyer
	headers         map[string]string
	revalidateAfter time.Duration
	attempts        int
	delay           time.Duration
	maxBody         int64
	now             func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithKeyer sets the cache key builder.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.keyer = k }
}

// WithRetry sets the retry attempts and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithMaxBodyBytes sets the largest accepted response body.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithRevalidateAfter sets the entry age after which a conditional GET is sent.
// Zero revalidates on every call.
func WithRevalidateAfter(d time.Duration) Option {
	return func(c *Client) { c.revalidateAfter = d }
}

// NewClient creates a Client with the given cache and default headers.
// Headers are applied to all requests made through this client.
// A nil cache disables caching.
func NewClient(c cache.Cache, headers map[string]string, opts ...Option) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	headers = maps.Clone(headers)
	if headers == nil {
		headers = make(map[string]string)
	}
	if _, ok := headers["User-Agent"]; !ok {
		headers["User-Agent"] = buildinfo.UserAgent()
	}
	client := &Client{
		http:            NewHTTPClient(0),
		cache:           c,
		keyer:           cache.NewDefaultKeyer(),
		headers:         headers,
		revalidateAfter: DefaultRevalidateAfter,
		attempts:        DefaultRetries,
		delay:           DefaultRetryDelay,
		maxBody:         DefaultMaxBodyBytes,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Get performs a cached GET and JSON-decodes the body into v.
// It returns whether the body was stale.
func (c *Client) Get(ctx context.Context, rawURL string, v any) (stale bool, err error) {
	return c.GetWithHeaders(ctx, rawURL, nil, v)
}

// GetWithHeaders is [Client.Get] with extra request headers.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, rawURL string, headers map[string]string, v any) (bool, error) {
	resp, err := c.Fetch(ctx, rawURL, headers)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return resp.Stale, fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return resp.Stale, nil
}

// GetText performs a cached GET and returns the body as a string.
// Useful for raw README and config endpoints.
func (c *Client) GetText(ctx context.Context, rawURL string) (string, bool, error) {
	resp, err := c.Fetch(ctx, rawURL, nil)
	if err != nil {
		return "", false, err
	}
	return string(resp.Body), resp.Stale, nil
}

// Fetch returns the body for rawURL.
//
// A cached entry younger than the revalidation window is returned without a
// request. An older entry is revalidated with If-None-Match; a 304 reuses it.
// When the source rate-limits (403/429) or keeps failing, a cached entry is
// returned with Stale set. A 404 removes any cached entry and returns
// [ErrNotFound].
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) (Response, error) {
	key := c.keyer.HTTPKey(rawURL)
	entry, hit, _ := c.cache.Get(ctx, key)
	if hit && entry.Age(c.now()) < c.revalidateAfter {
		observability.Cache().OnCacheHit(ctx, "http")
		return Response{Body: entry.Data, Cached: true}, nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var (
		body        []byte
		etag        string
		notModified bool
	)
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		var reqHeaders map[string]string
		if hit && entry.ETag != "" {
			reqHeaders = map[string]string{"If-None-Match": entry.ETag}
		}
		var err error
		body, etag, notModified, err = c.doRequest(ctx, rawURL, headers, reqHeaders)
		return err
	})

	switch {
	case err == nil && notModified && hit:
		observability.Cache().OnCacheHit(ctx, "http")
		_ = c.cache.Set(ctx, key, entry.Data, entry.ETag)
		return Response{Body: entry.Data, Cached: true}, nil
	case err == nil && notModified:
		return Response{}, fmt.Errorf("%w: 304 without cached entry for %s", ErrNetwork, rawURL)
	case err == nil:
		_ = c.cache.Set(ctx, key, body, etag)
		return Response{Body: body}, nil
	case errors.Is(err, ErrNotFound):
		if hit {
			_ = c.cache.Delete(ctx, key)
		}
		return Response{}, err
	case hit && (errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNetwork)):
		observability.Cache().OnCacheStale(ctx, "http")
		return Response{Body: entry.Data, Cached: true, Stale: true}, nil
	default:
		return Response{}, err
	}
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers ...map[string]string) (body []byte, etag string, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", false, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	host := hostOf(rawURL)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, host, err)
		if ctx.Err() != nil {
			return nil, "", false, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
		}
		return nil, "", false, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, host, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNotModified {
		return nil, "", true, nil
	}
	if err := checkStatus(resp, c.now()); err != nil {
		return nil, "", false, err
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, "", false, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if int64(len(body)) > c.maxBody {
		return nil, "", false, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, rawURL, c.maxBody)
	}
	return body, resp.Header.Get("ETag"), false, nil
}

func checkStatus(resp *http.Response, now time.Time) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden, code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, code)
	case code >= 500:
		after := httputil.ParseRetryAfter(resp.Header.Get("Retry-After"), now)
		return httputil.RetryAfter(fmt.Errorf("%w: status %d", ErrNetwork, code), after)
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/errors"
	"github.com/matzehuels/photobook/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// MaxBodySize is the largest response body read into memory.
	MaxBodySize = 50 << 20
)

// Client is an HTTP client with caching and retry.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewClient creates a Client. A nil cache disables caching; ttl applies to
// every cached entry. Headers are sent with each request.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    c,
		keyer:    cache.NewDefaultKeyer(),
		ttl:      ttl,
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
	}
}

// SetHTTPClient replaces the underlying transport client.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// SetKeyer replaces the cache keyer, for example with a [cache.ScopedKeyer].
func (c *Client) SetKeyer(k cache.Keyer) { c.keyer = k }

// SetRetry changes the number of attempts and the initial backoff delay.
func (c *Client) SetRetry(attempts int, delay time.Duration) {
	c.attempts, c.delay = attempts, delay
}

// Cached returns the bytes stored under (namespace, key), or calls fetch
// with retry and stores its result. If refresh is true the cached value is
// ignored. Cache failures are not fatal: a broken cache only costs a fetch.
func (c *Client) Cached(ctx context.Context, namespace, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	k := c.keyer.HTTPKey(namespace, key)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, k); ok {
			observability.Cache().OnCacheHit(ctx, namespace)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, namespace)
	}

	var data []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, k, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, namespace, len(data))
	}
	return data, nil
}

// CachedBytes fetches url through the cache under namespace.
func (c *Client) CachedBytes(ctx context.Context, namespace, url string) ([]byte, error) {
	return c.Cached(ctx, namespace, url, false, func() ([]byte, error) {
		return c.fetch(ctx, url)
	})
}

// GetBytes fetches url with retry, bypassing the cache.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		data, err = c.fetch(ctx, url)
		return err
	})
	return data, err
}

// GetJSON fetches url with retry and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", url)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if isRefused(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "GET %s", url)
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "GET %s", url)
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
	}
	if len(data) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: body exceeds %d bytes", url, MaxBodySize)
	}
	return data, nil
}

func checkStatus(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", url)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d %s", url, code, http.StatusText(code))
	}
}

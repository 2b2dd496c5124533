package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jpillora/backoff"

	"github.com/mwantia/onedatafs/data"
	"github.com/mwantia/onedatafs/log"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 3
	defaultCacheSize = 512
	defaultCacheTTL  = 5 * time.Minute
)

// Client speaks the Onedata REST file API: space and provider resolution
// against the Onezone, file operations against the Oneprovider serving the
// space. All requests carry the access token in the X-Auth-Token header.
type Client struct {
	zoneHost string
	token    string
	http     *http.Client
	log      *log.Logger

	timeout  time.Duration
	insecure bool
	retries  int
	cacheTTL time.Duration

	spaceIDs  *expirable.LRU[string, string]
	providers *expirable.LRU[string, string]
	fileIDs   *expirable.LRU[string, string]
}

type Option func(*Client) error

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return data.ErrInvalid
		}
		c.timeout = timeout
		return nil
	}
}

// WithInsecure disables TLS certificate verification.
func WithInsecure() Option {
	return func(c *Client) error {
		c.insecure = true
		return nil
	}
}

// WithRetries sets how often transient failures are retried.
func WithRetries(retries int) Option {
	return func(c *Client) error {
		if retries < 0 {
			return data.ErrInvalid
		}
		c.retries = retries
		return nil
	}
}

// WithCacheTTL sets how long resolved space, provider and file ids are kept.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) error {
		c.cacheTTL = ttl
		return nil
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) error {
		c.log = logger
		return nil
	}
}

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		c.http = httpClient
		return nil
	}
}

func New(zoneHost, token string, opts ...Option) (*Client, error) {
	if zoneHost == "" {
		return nil, fmt.Errorf("%w: empty zone host", data.ErrInvalid)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: empty access token", data.ErrInvalid)
	}

	c := &Client{
		zoneHost: zoneHost,
		token:    token,
		log:      log.Discard(),

		timeout:  defaultTimeout,
		retries:  defaultRetries,
		cacheTTL: defaultCacheTTL,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.http == nil {
		transport := cleanhttp.DefaultPooledTransport()
		if c.insecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		c.http = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
		}
	}

	c.spaceIDs = expirable.NewLRU[string, string](defaultCacheSize, nil, c.cacheTTL)
	c.providers = expirable.NewLRU[string, string](defaultCacheSize, nil, c.cacheTTL)
	c.fileIDs = expirable.NewLRU[string, string](defaultCacheSize, nil, c.cacheTTL)

	return c, nil
}

// ozURL generates an Onezone URL for the given API path.
func (c *Client) ozURL(path string) string {
	return fmt.Sprintf("https://%s/api/v3/onezone%s", c.zoneHost, path)
}

// opURL generates an Oneprovider URL for the given API path.
func (c *Client) opURL(provider, path string) string {
	return fmt.Sprintf("https://%s/api/v3/oneprovider%s", provider, path)
}

// escapePath escapes each path segment while keeping separators intact.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}

// send performs an HTTP request with token auth and backoff retry on
// transient failures. The caller owns the response body on success.
func (c *Client) send(ctx context.Context, method, url string, body []byte, header http.Header) (*http.Response, error) {
	bo := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying %s %s (attempt %d): %v", method, url, attempt, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(bo.Duration()):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		for key, values := range header {
			req.Header[key] = values
		}
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("X-Auth-Token", c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if retryable(resp.StatusCode) {
			lastErr = newRESTError(resp)
			continue
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, newRESTError(resp)
		}

		c.log.Debug("%s %s -> %d", method, url, resp.StatusCode)
		return resp, nil
	}

	return nil, lastErr
}

// sendJSON performs a request with an optional JSON body and decodes the
// response into out when non-nil.
func (c *Client) sendJSON(ctx context.Context, method, url string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, method, url, payload, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds one retrieval attempt.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBytes bounds a decoded page body.
	DefaultMaxBytes int64 = 10 << 20
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "Mozilla/5.0 (compatible; token-inspector)"

	faviconEndpoint = "https://www.google.com/s2/favicons"
	maxFaviconBytes = 1 << 20
	acceptMarkup    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	Proxies   []string // nil = DefaultProxies, empty = direct only
	UserAgent string
	MaxBytes  int64
	// FaviconEndpoint replaces the favicon service, mainly for tests.
	FaviconEndpoint string
	// Transport replaces the underlying round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client fetches pages through the fallback chain. It is safe for
// concurrent use.
type Client struct {
	opts Options
	http *http.Client
}

// Page is the outcome of a successful Fetch.
type Page struct {
	Locator *url.URL
	Markup  string
	Via     Attempt
	// Failures holds the attempts that failed before Via succeeded.
	Failures []error
}

// New returns a client with a decompressing transport.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Proxies == nil {
		opts.Proxies = DefaultProxies
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.FaviconEndpoint == "" {
		opts.FaviconEndpoint = faviconEndpoint
	}

	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &Client{
		opts: opts,
		http: &http.Client{Transport: &decompressingTransport{base: base}},
	}
}

// Fetch normalizes input and retrieves its markup, trying the direct URL
// and then each proxy in order. It fails with *MalformedLocatorError before
// any network traffic, with *ExhaustedError once every attempt failed, or
// with the context error when ctx is done.
func (c *Client) Fetch(ctx context.Context, input string) (*Page, error) {
	locator, err := Normalize(input)
	if err != nil {
		return nil, err
	}

	candidates := Candidates(locator, c.opts.Proxies)
	var via Attempt
	markup, failures, err := Chain(ctx, candidates, c.opts.Timeout, func(ctx context.Context, a Attempt) (string, error) {
		via = a
		return c.get(ctx, a.URL(), c.opts.MaxBytes)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", locator, ctxErr)
		}
		return nil, &ExhaustedError{Locator: locator.String(), Attempts: len(failures), Cause: err}
	}

	return &Page{Locator: locator, Markup: markup, Via: via, Failures: failures}, nil
}

// Get fetches one URL directly, without proxies, and returns its decoded
// text. The static renderer uses it to load linked stylesheets.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return c.get(ctx, rawURL, c.opts.MaxBytes)
}

// FaviconURL is the icon service address for host.
func (c *Client) FaviconURL(host string) string {
	return c.opts.FaviconEndpoint + "?domain=" + url.QueryEscape(host) + "&sz=64"
}

// Favicon downloads a small icon for the locator's host. Callers treat a
// failure as "no icon".
func (c *Client) Favicon(ctx context.Context, locator *url.URL) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.do(ctx, c.FaviconURL(locator.Hostname()), "image/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFaviconBytes))
	if err != nil {
		return nil, fmt.Errorf("read favicon: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyBody
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return resp, nil
}

// get returns the body of rawURL decoded to UTF-8 from the charset the
// response declares or implies.
func (c *Client) get(ctx context.Context, rawURL string, limit int64) (string, error) {
	resp, err := c.do(ctx, rawURL, acceptMarkup)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("body exceeds %d bytes", limit)
	}
	if len(data) == 0 {
		return "", ErrEmptyBody
	}
	return string(data), nil
}

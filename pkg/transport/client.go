// Package transport issues HTTP(S) requests against a GraphQL endpoint
// and normalizes the responses the rest of gqlscan reasons about.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (Linux; Android 16) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.7499.194 Mobile Safari/537.36"

	// DebugHeader correlates probe requests with log entries when debug
	// mode is enabled.
	DebugHeader = "X-GQLMap-Test"
)

// Client wraps an *http.Client configured per spec: fixed timeout,
// disabled certificate verification, optional HTTP/SOCKS proxy, a
// fixed user-agent, and caller-supplied headers applied to every
// request. It is safe for concurrent use by multiple probes.
type Client struct {
	httpClient  *http.Client
	tlsConfig   *tls.Config
	headers     map[string]string
	debug       bool
	rateLimiter *RateLimiter
}

// TLSConfig returns the *tls.Config this Client dials HTTP requests
// with, so other transports a probe opens directly (e.g. a websocket
// upgrade) share the same certificate-verification posture instead of
// silently defaulting to Go's verified-by-default behavior.
func (c *Client) TLSConfig() *tls.Config {
	return c.tlsConfig
}

func (c *Client) waitRateLimit(ctx context.Context) error {
	if c.rateLimiter == nil {
		return nil
	}
	return c.rateLimiter.Wait(ctx)
}

// Config configures a new Client.
type Config struct {
	// ProxyURL, when set, is either an http(s):// proxy or a socks5://
	// proxy. Scheme is detected by prefix.
	ProxyURL string
	Headers  map[string]string
	Debug    bool
}

// New builds a Client from Config.
func New(cfg Config) (*Client, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: true} //nolint:gosec // intentional: black-box scanning of untrusted endpoints
	transport := &http.Transport{
		TLSClientConfig: tlsConfig,
	}

	if cfg.ProxyURL != "" {
		if err := applyProxy(transport, cfg.ProxyURL); err != nil {
			return nil, fmt.Errorf("configure proxy: %w", err)
		}
	}

	headers := cfg.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
		tlsConfig: tlsConfig,
		headers:   headers,
		debug:     cfg.Debug,
	}, nil
}

// applyProxy wires an HTTP or SOCKS proxy into transport, detected by
// the proxyURL's scheme prefix.
func applyProxy(transport *http.Transport, proxyURL string) error {
	if strings.HasPrefix(proxyURL, "socks") {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return fmt.Errorf("invalid SOCKS proxy URL: %w", err)
		}
		dialer, err := proxy.FromURL(parsed, proxy.Direct)
		if err != nil {
			return fmt.Errorf("build SOCKS dialer: %w", err)
		}
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
		return nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid HTTP proxy URL: %w", err)
	}
	transport.Proxy = http.ProxyURL(parsed)
	return nil
}

func (c *Client) applyHeaders(req *http.Request, probeName string) {
	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.debug && probeName != "" {
		req.Header.Set(DebugHeader, probeName)
	}
}

// PostGraphQL sends {"query": Q, "variables": V?} as application/json.
func (c *Client) PostGraphQL(ctx context.Context, url, query string, variables map[string]any, probeName string) (*Response, error) {
	body := map[string]any{"query": query}
	if variables != nil {
		body["variables"] = variables
	}
	return c.postJSON(ctx, url, body, probeName)
}

// PostBatch sends a JSON array of individual query objects.
func (c *Client) PostBatch(ctx context.Context, url string, queries []map[string]any, probeName string) (*Response, error) {
	var body any = queries
	return c.postJSON(ctx, url, body, probeName)
}

func (c *Client) postJSON(ctx context.Context, url string, body any, probeName string) (*Response, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req, probeName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send POST request: %w", err)
	}
	defer resp.Body.Close()

	return newResponse(resp, buildCurl(http.MethodPost, url, req.Header, encoded))
}

// PostForm sends the query as an application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, rawURL, query, probeName string) (*Response, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("query", query)
	encoded := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build form POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.applyHeaders(req, probeName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send form POST request: %w", err)
	}
	defer resp.Body.Close()

	return newResponse(resp, buildCurl(http.MethodPost, rawURL, req.Header, []byte(encoded)))
}

// GetGraphQL places the query in the `query` URL parameter.
func (c *Client) GetGraphQL(ctx context.Context, rawURL, query, probeName string) (*Response, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return nil, err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	q := parsed.Query()
	q.Set("query", query)
	parsed.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build GET request: %w", err)
	}
	c.applyHeaders(req, probeName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send GET request: %w", err)
	}
	defer resp.Body.Close()

	return newResponse(resp, fmt.Sprintf("curl -G '%s' --data-urlencode 'query=%s'", rawURL, query))
}

// GetHTML issues an `Accept: text/html` GET and returns the raw body.
func (c *Client) GetHTML(ctx context.Context, rawURL, probeName string) (*HTMLResponse, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build HTML GET request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	c.applyHeaders(req, probeName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send HTML GET request: %w", err)
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read HTML response body: %w", err)
	}

	return &HTMLResponse{
		Status:  resp.StatusCode,
		Body:    buf.String(),
		CurlCmd: fmt.Sprintf("curl -H 'Accept: text/html' '%s'", rawURL),
	}, nil
}

func buildCurl(method, url string, headers http.Header, body []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "curl -X %s '%s'", method, url)
	for k := range headers {
		fmt.Fprintf(&b, " -H '%s: %s'", k, headers.Get(k))
	}
	if len(body) > 0 {
		fmt.Fprintf(&b, " -d '%s'", string(body))
	}
	return b.String()
}

package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/tonimelisma/confluence-client/internal/logger"
)

// Caller is the transport the resource model talks to. Every method returns
// a normalized Response; failures to reach the server are reported as a 400
// Response, never as a Go error.
type Caller interface {
	Get(ctx context.Context, endpoint string, params url.Values) *Response
	Post(ctx context.Context, endpoint string, body any) *Response
	Put(ctx context.Context, endpoint string, body any) *Response
	Delete(ctx context.Context, endpoint string) *Response
}

// loggerProvider is implemented by callers that carry a logger resources
// can share.
type loggerProvider interface {
	Logger() logger.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. https://example.atlassian.net/wiki.
	BaseURL string
	// Token is an API token (cloud) or a personal access token (data center).
	Token string
	// Username is used together with Token for cloud basic auth.
	Username string
	// Cloud forces cloud authentication. Base URLs on atlassian.net are
	// always treated as cloud.
	Cloud bool
	// Timeout bounds every request. Zero means DefaultTimeout.
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64
	// Burst is the limiter burst size. Defaults to 1.
	Burst int
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    logger.Logger
}

// Client is the HTTP implementation of Caller. It is safe for concurrent use.
type Client struct {
	baseURL    string
	cloud      bool
	username   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger

	mu      sync.RWMutex
	headers map[string]string
}

// NewClient builds a Client from opts.
//
// Cloud servers with a username and token use HTTP basic auth. Data center
// servers with a token send it as a bearer personal access token.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrBaseURLNotSet
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c := &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		cloud:    opts.Cloud || strings.Contains(opts.BaseURL, cloudHostMarker),
		username: opts.Username,
		token:    opts.Token,
		logger:   logger.OrNoop(opts.Logger),
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": DefaultUserAgent,
		},
	}

	transport := base
	if c.token != "" && !c.cloud {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}),
			Base:   base,
		}
	}
	c.httpClient = &http.Client{Transport: transport, Timeout: timeout}

	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return c, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() logger.Logger {
	return c.logger
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsCloud reports whether the client talks to Confluence Cloud.
func (c *Client) IsCloud() bool {
	return c.cloud
}

// AddHeader sets a header sent with every request.
func (c *Client) AddHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// RemoveHeader stops sending a header added with AddHeader.
func (c *Client) RemoveHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, key)
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) *Response {
	return c.do(ctx, http.MethodGet, endpoint, params, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) *Response {
	return c.do(ctx, http.MethodPost, endpoint, nil, body)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) *Response {
	return c.do(ctx, http.MethodPut, endpoint, nil, body)
}

func (c *Client) Delete(ctx context.Context, endpoint string) *Response {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// do sends one request and normalizes whatever comes back.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any) *Response {
	req, err := c.newRequest(ctx, method, endpoint, params, body)
	if err != nil {
		c.logger.Warnf("building %s %s failed: %v", method, endpoint, err)
		return failedResponse(err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return failedResponse(fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	c.logger.Debug("confluence request", "method", method, "url", req.URL.String())
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("%s %s failed: %v", method, endpoint, err)
		return failedResponse(err)
	}
	defer closeBodySafely(res.Body, c.logger, method+" "+endpoint)

	data, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Warnf("reading %s %s response body failed: %v", method, endpoint, err)
		data = nil
	}

	resp := NewResponse(res.StatusCode, data)
	c.logger.Debug("confluence response", "method", method, "url", req.URL.String(), "status", res.StatusCode)
	return resp
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, params url.Values, body any) (*http.Request, error) {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	c.mu.RUnlock()

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cloud && c.username != "" && c.token != "" {
		req.SetBasicAuth(c.username, c.token)
	}
	return req, nil
}

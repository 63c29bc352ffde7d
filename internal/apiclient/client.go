// Package apiclient is the single gateway to the remote mess API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"mess-portal/internal/metrics"
)

const maxResponseBytes = 8 << 20

// Request describes one call. The bearer token is carried per request and is
// never stored on the client.
type Request struct {
	Method string
	Path   string
	// Route is the path template used for metrics, e.g. "/users/{id}".
	Route string
	Query url.Values
	Body  any
	Token string
}

// Doer is what feature services depend on.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Collector
	Logger     *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}

		// The jar replays the server's http-only refresh cookie on logout.
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}

		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		metrics:    opts.Metrics,
		logger:     logger,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes req and decodes a successful body into out. Failures with a
// response come back as *apierror.APIError; transport failures are returned
// exactly as the transport produced them.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, route, 0, time.Since(started))
		c.logger.Warn("api request failed", "method", req.Method, "route", route, "error", err)
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(started)
	c.metrics.ObserveRequest(req.Method, route, resp.StatusCode, elapsed)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", req.Method, route, err)
	}

	c.logger.Debug("api request", "method", req.Method, "route", route, "status", resp.StatusCode, "duration_ms", elapsed.Milliseconds())

	if resp.StatusCode >= http.StatusBadRequest {
		return Normalize(resp.StatusCode, body, req.Path)
	}

	if err := decodeBody(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, route, err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/plain")
	if token := strings.TrimSpace(req.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

// decodeBody accepts plain-text bodies for string results; several endpoints
// answer with a bare message or a payment session id.
func decodeBody(body []byte, out any) error {
	if out == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(body)

	if s, ok := out.(*string); ok {
		if len(trimmed) > 0 && trimmed[0] == '"' {
			return json.Unmarshal(trimmed, s)
		}
		*s = string(trimmed)
		return nil
	}

	if len(trimmed) == 0 {
		return fmt.Errorf("empty response body")
	}

	return json.Unmarshal(trimmed, out)
}

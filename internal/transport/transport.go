package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eugenenazirov/cdp-sdk-go/config"
)

// Client performs JSON requests against the API with a predetermined number
// of retries per request. A single Client is shared by all resource clients.
type Client struct {
	baseURL string
	apiKey  string
	project string
	retries int
	http    *http.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ClientOption configures Client behaviour.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, primarily for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New constructs a Client from the resolved SDK configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...ClientOption) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		project: cfg.Project,
		retries: cfg.Retries,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		limiter: limiter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectURL builds a project-scoped endpoint URL for the given API version,
// e.g. ProjectURL("0.5", "/timeseries") -> <base>/0.5/projects/<project>/timeseries.
func (c *Client) ProjectURL(version, suffix string) string {
	return fmt.Sprintf("%s/%s/projects/%s%s", c.baseURL, version, c.project, suffix)
}

type requestOptions struct {
	gzip bool
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

// WithGzip compresses the JSON request body and sets Content-Encoding: gzip.
func WithGzip() RequestOption {
	return func(o *requestOptions) {
		o.gzip = true
	}
}

// Get performs a GET request with retries and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, rawURL, params, nil, out, requestOptions{})
}

// Post performs a POST request with retries and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, rawURL string, params url.Values, body, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return c.do(ctx, http.MethodPost, rawURL, params, body, out, o)
}

// Put performs a PUT request with retries and decodes the JSON response into out.
func (c *Client) Put(ctx context.Context, rawURL string, body, out any) error {
	return c.do(ctx, http.MethodPut, rawURL, nil, body, out, requestOptions{})
}

// Delete performs a DELETE request with retries and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, rawURL string, params url.Values, out any) error {
	return c.do(ctx, http.MethodDelete, rawURL, params, nil, out, requestOptions{})
}

// RawGet fetches rawURL without API headers or retries and returns the body,
// for downloads from signed links.
func (c *Client) RawGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug("sending request",
		zap.String("method", http.MethodGet),
		zap.String("url", rawURL),
	)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, newAPIError(res.StatusCode, data, res.Header.Get("X-Request-Id"))
	}
	return data, nil
}

// RawPut uploads a raw body to rawURL without API headers or retries. Signed
// upload URLs are one-time use, so the request is never repeated.
func (c *Client) RawPut(ctx context.Context, rawURL string, body io.Reader, contentLength int64, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.ContentLength = contentLength
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("sending request",
		zap.String("method", http.MethodPut),
		zap.String("url", rawURL),
	)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		data, _ := io.ReadAll(res.Body)
		return newAPIError(res.StatusCode, data, res.Header.Get("X-Request-Id"))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, body, out any, o requestOptions) error {
	payload, contentEncoding, err := encodeBody(body, o.gzip)
	if err != nil {
		return err
	}

	fullURL := rawURL
	if len(params) > 0 {
		fullURL = rawURL + "?" + params.Encode()
	}

	c.logger.Debug("sending request",
		zap.String("method", method),
		zap.String("url", fullURL),
	)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("api-key", c.apiKey)
		req.Header.Set("accept", "application/json")
		if body != nil {
			req.Header.Set("content-type", "application/json")
		}
		if contentEncoding != "" {
			req.Header.Set("content-encoding", contentEncoding)
		}

		res, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if ctx.Err() != nil {
				return lastErr
			}
			c.retryWarn(method, fullURL, attempt, err)
			continue
		}

		data, readErr := io.ReadAll(res.Body)
		_ = res.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read response: %w", readErr)
			c.retryWarn(method, fullURL, attempt, readErr)
			continue
		}

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			if out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}

		apiErr := newAPIError(res.StatusCode, data, res.Header.Get("X-Request-Id"))
		if !retryable(res.StatusCode) {
			return apiErr
		}
		lastErr = apiErr
		c.retryWarn(method, fullURL, attempt, apiErr)
	}

	return lastErr
}

func (c *Client) retryWarn(method, url string, attempt int, err error) {
	if attempt >= c.retries {
		return
	}
	c.logger.Warn("retrying request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("attempt", attempt+1),
		zap.Error(err),
	)
}

// retryable reports whether a response status justifies another attempt.
func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

func encodeBody(body any, compress bool) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	if !compress {
		return data, "", nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, "", fmt.Errorf("compress request body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("compress request body: %w", err)
	}
	return buf.Bytes(), "gzip", nil
}

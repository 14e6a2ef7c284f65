// Package api talks to the external recipes REST collection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Makepad-fr/recipes/internal/errors"
	"github.com/Makepad-fr/recipes/internal/model"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "recipes-cli/1.0"

	// RequestIDHeader is set on every request and logged with its outcome.
	RequestIDHeader = "X-Request-Id"

	maxErrorBody = 256
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses a copy of hc for requests. hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.httpClient = &cp
		}
	}
}

// WithTimeout sets the total per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.timeoutSet = true
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit paces outgoing requests to at most rps per second.
// Zero or negative leaves requests unpaced.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client issues the four collection requests. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	timeoutSet bool
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a client for the collection at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeoutSet {
		c.httpClient.Timeout = c.timeout
	}
	return c
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Recipe, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	if err := json.Unmarshal(body, &recipes); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeDecode, "decode recipe list", err,
			map[string]any{"url": c.baseURL})
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	return recipes, nil
}

// Create posts r to the collection. r is normally a placeholder with ID 0.
func (c *Client) Create(ctx context.Context, r model.Recipe) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL, r)
	return err
}

// Update replaces the recipe at r.ID.
func (c *Client) Update(ctx context.Context, r model.Recipe) error {
	u, err := c.itemURL(r.ID)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPut, u, r)
	return err
}

// Delete removes the recipe with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	u, err := c.itemURL(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, u, nil)
	return err
}

func (c *Client) itemURL(id int) (string, error) {
	if id == model.UnsavedID {
		return "", errors.New(errors.ErrCodeInvalidRequest, "recipe has no server id")
	}
	return c.baseURL + "/" + strconv.Itoa(id), nil
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reqCtx := map[string]any{"method": method, "url": url}

	var bodyReader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "encode request body", err, reqCtx)
		}
		bodyReader = bytes.NewReader(b)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeCanceled, "wait for rate limiter", err, reqCtx)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "create request", err, reqCtx)
	}
	requestID := uuid.NewString()
	reqCtx["request_id"] = requestID
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeCanceled, "request canceled", ctx.Err(), reqCtx)
		}
		return nil, errors.WrapWithContext(errors.ErrCodeNetwork, "request failed", err, reqCtx)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNetwork, "read response", err, reqCtx)
	}

	c.logger.Debug("recipes api request",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqCtx["status"] = resp.StatusCode
		if snippet := strings.TrimSpace(string(body)); snippet != "" {
			if len(snippet) > maxErrorBody {
				snippet = snippet[:maxErrorBody]
			}
			reqCtx["body"] = snippet
		}
		return nil, errors.NewWithContext(errors.ErrCodeUnexpectedStatus,
			fmt.Sprintf("%s %s: %s", method, url, resp.Status), reqCtx)
	}
	return body, nil
}

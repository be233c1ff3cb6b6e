// Package rest implements the remote ports over the HTTP/JSON APIs of the
// six backend services.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"finboard/internal/cache"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/remote"
)

const (
	requestIDHeader  = "X-Request-ID"
	categoriesKey    = "categories"
	maxErrorBodySize = 4 << 10
)

// Endpoints holds the base URL of each service, e.g.
// "http://localhost:8081/api/categories".
type Endpoints struct {
	Category    string
	Budget      string
	Transaction string
	Savings     string
	Report      string
	User        string
}

// Options configures a Client.
type Options struct {
	Endpoints Endpoints
	// Timeout bounds every HTTP exchange. Zero means no timeout.
	Timeout time.Duration
	// RetryMaxElapsed caps the total time spent retrying a GET. Zero
	// disables retries.
	RetryMaxElapsed time.Duration
	// CategoryCacheTTL is how long a category listing is served from
	// memory. Zero disables the cache.
	CategoryCacheTTL time.Duration
	// HTTPClient overrides the default client; Timeout is ignored then.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to the six services. It is safe for concurrent use.
type Client struct {
	endpoints       Endpoints
	http            *http.Client
	retryMaxElapsed time.Duration
	categories      *cache.LRUCache[[]any]
	logger          *log.Logger

	// catMu guards catVersion, which every category write bumps. A
	// listing is cached only if no write happened while it was in flight.
	catMu      sync.Mutex
	catVersion uint64
}

var _ remote.Backend = (*Client)(nil)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	// Message is the service's "error" or "message" field when the body
	// carried one, otherwise the trimmed body.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Temporary reports whether retrying might succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// New creates a client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		endpoints:       opts.Endpoints,
		http:            hc,
		retryMaxElapsed: opts.RetryMaxElapsed,
		logger:          log.OrNop(opts.Logger).WithComponent(log.ComponentRest),
	}
	if opts.CategoryCacheTTL > 0 {
		c.categories = cache.NewLRUCache[[]any](1, opts.CategoryCacheTTL)
	}
	return c
}

// Cleaner exposes the category cache for a cache.Manager, or nil when
// caching is off.
func (c *Client) Cleaner() cache.Cleaner {
	if c.categories == nil {
		return nil
	}
	return c.categories
}

// get fetches url, retrying transport failures and temporary statuses.
func (c *Client) get(ctx context.Context, url string) (any, error) {
	var out any
	op := func() error {
		v, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}

	attempt := 0
	notify := func(err error, wait time.Duration) {
		attempt++
		c.logger.WarnContext(ctx, "Retrying request",
			log.FieldURL, url,
			log.FieldAttempt, attempt,
			log.FieldError, err,
			"wait", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(c.policy(), ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) policy() backoff.BackOff {
	if c.retryMaxElapsed <= 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = c.retryMaxElapsed
	return b
}

func (c *Client) do(ctx context.Context, method, url string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, url, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, url, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	fields := log.NewFields().
		WithRequestID(requestID).
		WithHTTPRequest(method, url)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Log(ctx, log.StatusLevel(0), "Request failed", fields.WithError(err).ToSlice()...)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	fields = fields.WithHTTPResponse(resp.StatusCode, time.Since(start).Milliseconds())
	if err != nil {
		c.logger.Log(ctx, log.StatusLevel(0), "Reading response failed", fields.WithError(err).ToSlice()...)
		return nil, fmt.Errorf("read %s %s: %w", method, url, err)
	}

	c.logger.Log(ctx, log.StatusLevel(resp.StatusCode), "Request completed", fields.ToSlice()...)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}
	return decode(raw)
}

// decode parses a JSON body keeping numbers as json.Number. An empty body
// decodes to nil.
func decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

func errorMessage(raw []byte) string {
	if v, err := decode(raw); err == nil {
		if m, ok := v.(map[string]any); ok {
			for _, key := range []string{"error", "message"} {
				if s, ok := m[key].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	if len(raw) > maxErrorBodySize {
		raw = raw[:maxErrorBodySize]
	}
	return strings.TrimSpace(string(raw))
}

// list treats any non-array body as an empty list.
func list(v any) []any {
	items, ok := v.([]any)
	if !ok {
		return []any{}
	}
	return items
}

// object returns the body as a payload, or nil when it is not an object.
func object(v any) core.Payload {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// write performs a single exchange. Writes are never retried.
func (c *Client) write(ctx context.Context, method, url string, body any) (core.Payload, error) {
	v, err := c.do(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	return object(v), nil
}

func (c *Client) remove(ctx context.Context, url string) error {
	_, err := c.do(ctx, http.MethodDelete, url, nil)
	return err
}

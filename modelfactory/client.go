// Package modelfactory is a client for the Model Factory frontend service,
// the HTTP API the dashboard reads jobs, triggers and models from.
//
// Every call is a POST to {endpoint}/{call} carrying a JSON body and
// answering JSON. Calls honour context cancellation; there is no retry.
package modelfactory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxResponseBytes caps how much of a response body is read. Job logs are the
// largest payloads.
const maxResponseBytes = 64 << 20

// DefaultTimeout bounds a single call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the service answers null for a lookup.
	ErrNotFound = errors.New("modelfactory: not found")

	// ErrInvalidEndpoint is returned by New for an unusable endpoint.
	ErrInvalidEndpoint = errors.New("modelfactory: invalid endpoint")
)

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	Call       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("modelfactory: %s returned %d: %s", e.Call, e.StatusCode, body)
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer is notified after every call.
type Observer interface {
	ObserveBackendCall(call string, err error, d time.Duration)
}

// Client talks to one Model Factory frontend service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     Logger
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The client is used as is and
// never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout. Zero or less disables it, leaving
// only the caller's context and the HTTP client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithObserver sets a call observer, typically the metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for the service at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "%q", endpoint)
	}

	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the service base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// call posts body to the named call and decodes the answer into out. A nil
// body sends no payload; a nil out discards the answer. It reports whether
// the service answered a non-null value.
func (c *Client) call(ctx context.Context, name string, body, out any) (found bool, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackendCall(name, err, time.Since(start))
		}
		if c.logger != nil {
			if err != nil {
				c.logger.Warn("model factory call failed", "call", name, "error", err.Error(), "duration", time.Since(start))
			} else {
				c.logger.Debug("model factory call", "call", name, "duration", time.Since(start))
			}
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, errors.Wrapf(err, "encode %s request", name)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+name, reader)
	if err != nil {
		return false, errors.Wrapf(err, "build %s request", name)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrapf(err, "call %s", name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, errors.Wrapf(err, "read %s response", name)
	}
	if resp.StatusCode != http.StatusOK {
		return false, &StatusError{Call: name, StatusCode: resp.StatusCode, Body: string(data)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if out != nil {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return false, errors.Wrapf(err, "decode %s response", name)
		}
	}
	return true, nil
}

// Keepalive checks the service is reachable.
func (c *Client) Keepalive(ctx context.Context) error {
	var resp struct {
		OK int `json:"ok"`
	}
	if _, err := c.call(ctx, "keepalive", nil, &resp); err != nil {
		return err
	}
	if resp.OK != 1 {
		return errors.New("modelfactory: keepalive not acknowledged")
	}
	return nil
}

package odata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credentials carry the Basic-Auth identity used against the backend. They are
// injected from configuration, never compiled in.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) header() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
	return "Basic " + token
}

// UpstreamRecorder receives the outcome of every upstream request.
// *observability.Metrics satisfies it.
type UpstreamRecorder interface {
	ObserveUpstream(resource, outcome string, elapsed time.Duration)
}

// ClientConfig groups the dependencies of a Client.
type ClientConfig struct {
	BaseURL     string
	SAPClient   string
	Credentials Credentials
	Timeout     time.Duration
	Logger      *slog.Logger
	Recorder    UpstreamRecorder
}

// Client issues authenticated single-shot GET requests against an SAP OData v2
// service root and classifies the responses. No retries are attempted.
type Client struct {
	base      *url.URL
	sapClient string
	creds     Credentials
	timeout   time.Duration
	http      *http.Client
	logger    *slog.Logger
	recorder  UpstreamRecorder
}

// NewClient validates the base URL and builds a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("odata: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("odata: base url %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:      base,
		sapClient: cfg.SAPClient,
		creds:     cfg.Credentials,
		timeout:   timeout,
		http:      &http.Client{},
		logger:    logger,
		recorder:  cfg.Recorder,
	}, nil
}

// get performs the request with the given credentials and returns the raw body
// for 2xx responses. 401/403 map to ErrAuth, other statuses to StatusError and
// transport failures to RequestError.
func (c *Client) get(ctx context.Context, resource string, q Query, creds Credentials, accept string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := *c.base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/" + resource
	endpoint.RawQuery = q.Encode(c.sapClient)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("Authorization", creds.header())
	req.Header.Set("Accept", accept)
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		c.observe(resource, "network_error", elapsed)
		c.logger.Warn("upstream request failed",
			slog.String("resource", resource),
			slog.String("request_id", reqID),
			slog.Any("error", err))
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.observe(resource, "network_error", elapsed)
			return nil, &RequestError{Err: err}
		}
		c.observe(resource, "ok", elapsed)
		c.logger.Debug("upstream request",
			slog.String("resource", resource),
			slog.String("request_id", reqID),
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", elapsed))
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.observe(resource, "auth_rejected", elapsed)
		return nil, ErrAuth
	default:
		c.observe(resource, "upstream_error", elapsed)
		c.logger.Warn("upstream status",
			slog.String("resource", resource),
			slog.String("request_id", reqID),
			slog.Int("status", resp.StatusCode))
		return nil, &StatusError{Status: resp.StatusCode}
	}
}

// GetJSON fetches a resource with the configured service credentials.
func (c *Client) GetJSON(ctx context.Context, resource string, q Query) ([]byte, error) {
	return c.get(ctx, resource, q, c.creds, "application/json")
}

// Probe issues a minimal $top=1 read with caller-supplied credentials and
// reports whether they were accepted. 401/403 yields (false, nil); any other
// failure is returned so callers can distinguish "wrong password" from
// "backend unreachable".
func (c *Client) Probe(ctx context.Context, resource string, creds Credentials) (bool, error) {
	_, err := c.get(ctx, resource, Query{}.Top(1), creds, "application/json")
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrAuth) {
		return false, nil
	}
	return false, err
}

func (c *Client) observe(resource, outcome string, elapsed time.Duration) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream(resource, outcome, elapsed)
	}
}

// decode unmarshals a response body, converting failures to ParseError.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

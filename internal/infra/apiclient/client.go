// Package apiclient implements the domain API ports over the remote REST API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure Client implements domain.API.
var _ domain.API = (*Client)(nil)

const (
	tracerName      = "github.com/runoshun/taskdesk/internal/infra/apiclient"
	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 8 << 20
)

// TokenSource provides the bearer token for requests.
// domain.SessionStore satisfies it.
type TokenSource interface {
	Load() (*domain.Session, error)
}

// Client talks JSON to the task API.
// Fields are ordered to minimize memory padding.
type Client struct {
	http      *http.Client
	tokens    TokenSource
	logger    domain.Logger
	tracer    trace.Tracer
	requestID func() string
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource attaches a bearer token to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l domain.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequestIDFunc overrides X-Request-ID generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// New creates a Client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, domain.ErrMissingBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base_url %q", baseURL)
	}

	c := &Client{
		http:      &http.Client{Timeout: timeout},
		logger:    domain.NopLogger{},
		tracer:    otel.Tracer(tracerName),
		requestID: uuid.NewString,
		baseURL:   baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is a non-2xx response.
// Fields are ordered to minimize memory padding.
type StatusError struct {
	Method    string
	Path      string
	Message   string
	RequestID string
	Status    int
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unwrap classifies the status: 4xx is domain.ErrRejected, everything else domain.ErrServer.
func (e *StatusError) Unwrap() error {
	if e.Status >= 400 && e.Status < 500 {
		return domain.ErrRejected
	}
	return domain.ErrServer
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// do performs one request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqID := c.requestID()
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.String("taskdesk.request_id", reqID),
	)

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "encode request")
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerRequestID, reqID)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Warn(0, "api", fmt.Sprintf("%s %s failed: %v", method, path, err))
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return fmt.Errorf("%s %s: read body: %w: %w", method, path, domain.ErrTransport, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug(0, "api", fmt.Sprintf("%s %s -> %d (%s) [%s]", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{
			Method:    method,
			Path:      path,
			Status:    resp.StatusCode,
			Message:   errorMessage(data),
			RequestID: reqID,
		}
		span.SetStatus(codes.Error, se.Error())
		return se
	}
	span.SetStatus(codes.Ok, "")

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrUnexpectedResponse, err)
	}
	return nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	s, err := c.tokens.Load()
	if err != nil || s == nil {
		return ""
	}
	return s.Token
}

// errorBody is the error envelope. FastAPI-style servers send "detail",
// which may be a string or a list of validation problems.
type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
}

func errorMessage(data []byte) string {
	var eb errorBody
	if err := sonic.Unmarshal(data, &eb); err != nil {
		return strings.TrimSpace(string(data))
	}
	if eb.Message != "" {
		return eb.Message
	}
	switch d := eb.Detail.(type) {
	case nil:
		return ""
	case string:
		return d
	default:
		raw, err := sonic.MarshalString(d)
		if err != nil {
			return fmt.Sprint(d)
		}
		return raw
	}
}

func idQuery(key string, id int) url.Values {
	return url.Values{key: []string{fmt.Sprint(id)}}
}

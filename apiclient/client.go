package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/BaSui01/genbridge/internal/tlsutil"
	"github.com/BaSui01/genbridge/retry"
	"github.com/BaSui01/genbridge/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const instrumentationName = "github.com/BaSui01/genbridge/apiclient"

// Recorder receives per-attempt observations. status is 0 when no HTTP
// response was received.
type Recorder interface {
	RecordAttempt(client, method string, status int, d time.Duration)
	RecordRetry(client string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAttempt(string, string, int, time.Duration) {}
func (nopRecorder) RecordRetry(string)                               {}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSleep replaces the backoff sleeper (tests use retry.NoSleep).
func WithSleep(s retry.SleepFunc) Option {
	return func(c *Client) { c.sleep = s }
}

// WithJitter replaces the jitter source.
func WithJitter(j retry.JitterFunc) Option {
	return func(c *Client) { c.jitter = j }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithName labels the client in logs, spans and metrics.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// Client is an HTTP client bound to one base URL. Safe for concurrent use;
// the bound Config never changes after New.
type Client struct {
	name     string
	cfg      Config
	http     *http.Client
	retryer  *retry.Retryer
	limiter  *rate.Limiter
	recorder Recorder
	tracer   trace.Tracer
	logger   *zap.Logger
	sleep    retry.SleepFunc
	jitter   retry.JitterFunc
}

// New creates a client for cfg. Zero Timeout disables the per-attempt timeout.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg.normalized(),
		http:     tlsutil.HTTPClient(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(instrumentationName),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.name == "" {
		c.name = c.cfg.BaseURL
	}
	c.logger = c.logger.With(zap.String("component", "apiclient"), zap.String("client", c.name))

	if c.cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.cfg.RateLimit), c.cfg.RateBurst)
	}

	policy := retry.DefaultPolicy(c.cfg.MaxRetries)
	name := c.name
	rec := c.recorder
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		rec.RecordRetry(name)
	}
	var ropts []retry.Option
	if c.sleep != nil {
		ropts = append(ropts, retry.WithSleep(c.sleep))
	}
	if c.jitter != nil {
		ropts = append(ropts, retry.WithJitter(c.jitter))
	}
	c.retryer = retry.New(policy, c.logger, ropts...)
	return c
}

// Name returns the client label.
func (c *Client) Name() string { return c.name }

// Config returns a copy of the bound configuration.
func (c *Client) Config() Config { return c.cfg.normalized() }

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Do executes req with retries. Non-2xx statuses yield *RequestError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, types.NewError(types.ErrInvalidRequest, "nil request").WithProvider(c.name)
	}
	method := req.Method
	if method == "" {
		method = MethodGet
	}
	target := buildURL(c.cfg.BaseURL, req.Path, req.Query)
	body, err := encodeBody(method, req.Body)
	if err != nil {
		return nil, err
	}
	header := mergeHeaders(c.cfg.Headers, req.Headers)

	ctx, span := c.tracer.Start(ctx, "apiclient "+string(method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(method)),
			attribute.String("url.full", target),
			attribute.String("apiclient.name", c.name),
		))
	defer span.End()

	resp, err := retry.DoWithResult(ctx, c.retryer, func(ctx context.Context, attempt int) (*Response, error) {
		return c.attempt(ctx, method, target, header, body, attempt)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, method Method, target string, header http.Header, body []byte, attempt int) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, types.NewError(types.ErrTransport, "rate limiter wait failed").
				WithCause(err).WithProvider(c.name)
		}
	}

	attemptCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, string(method), target, reader)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRequest, "failed to build request").
			WithCause(err).WithProvider(c.name)
	}
	httpReq.Header = header.Clone()

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.recorder.RecordAttempt(c.name, string(method), 0, time.Since(start))
		c.logger.Debug("request attempt failed",
			zap.String("method", string(method)),
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return nil, types.NewError(types.ErrTransport, "request failed").
			WithCause(err).WithRetryable(true).WithProvider(c.name)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	c.recorder.RecordAttempt(c.name, string(method), httpResp.StatusCode, time.Since(start))
	if err != nil {
		return nil, types.NewError(types.ErrTransport, "failed to read response body").
			WithCause(err).WithRetryable(true).WithProvider(c.name).WithHTTPStatus(httpResp.StatusCode)
	}

	resp, err := classify(httpResp.StatusCode, httpResp.Header, raw)
	if err != nil {
		c.logger.Debug("request attempt rejected",
			zap.String("method", string(method)),
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Int("status", httpResp.StatusCode),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query Query, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: MethodGet, Path: path, Query: query, Headers: headers})
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string, query Query) (*Response, error) {
	return c.Do(ctx, &Request{Method: MethodPost, Path: path, Body: body, Headers: headers, Query: query})
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any, headers map[string]string, query Query) (*Response, error) {
	return c.Do(ctx, &Request{Method: MethodPut, Path: path, Body: body, Headers: headers, Query: query})
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any, headers map[string]string, query Query) (*Response, error) {
	return c.Do(ctx, &Request{Method: MethodPatch, Path: path, Body: body, Headers: headers, Query: query})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string, query Query) (*Response, error) {
	return c.Do(ctx, &Request{Method: MethodDelete, Path: path, Headers: headers, Query: query})
}

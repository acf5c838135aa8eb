package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Bahjat/page-insight-tool/web/internal/contract"
	"github.com/Bahjat/page-insight-tool/web/internal/model"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/config"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/errs"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/requestid"
)

const (
	healthPath  = apiPrefix + "/health"
	analyzePath = apiPrefix + "/analyze"
	userAgent   = "PageInsightWeb/1.0"

	// maxResponseBody caps how much of a backend response is read.
	maxResponseBody = 1 << 20
)

var errNegativeLinkCount = errors.New("link counts must be non-negative")

// Client is the only component that talks to the analysis backend. It holds
// no per-call state, so one instance is shared by all concurrent renders.
type Client struct {
	client *http.Client
	origin func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithOrigin replaces the origin lookup. The function is called on every
// request.
func WithOrigin(origin func() string) Option {
	return func(c *Client) { c.origin = origin }
}

// WithClock replaces the clock used to stamp fallback health data.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient returns a Client whose requests give up after timeout. The
// backend origin is read from the environment on each call.
func NewClient(timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		origin: config.BackendOrigin,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend address as of this call.
func (c *Client) BaseURL() string {
	return NormalizeOrigin(c.origin())
}

// Health asks the backend for its status. It never fails without a usable
// value: on any transport, HTTP or shape failure the returned status is the
// fallback (unhealthy, fields "unknown") and the error describes why.
func (c *Client) Health(ctx context.Context) (model.HealthStatus, error) {
	body, err := c.get(ctx, healthPath)
	if err != nil {
		return model.FallbackHealth(c.now()), err
	}

	var status model.HealthStatus
	if err := decodeChecked(body, contract.IsValidHealth, &status); err != nil {
		c.logFailure(ctx, healthPath, err)
		return model.FallbackHealth(c.now()), err
	}
	return status, nil
}

// Analyze asks the backend to analyze targetURL, which arrives decoded and
// is percent-encoded here. On failure no data is returned; the error is an
// *errs.AppError whose Message is the backend's own message when it sent one,
// otherwise the HTTP status line or transport error text.
func (c *Client) Analyze(ctx context.Context, targetURL string) (*model.AnalysisData, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return nil, &errs.AppError{Kind: errs.Validation, Message: "A URL is required."}
	}

	body, err := c.get(ctx, analyzePath+"?url="+url.QueryEscape(targetURL))
	if err != nil {
		return nil, err
	}

	var data model.AnalysisData
	if err := decodeChecked(body, contract.IsValidAnalysis, &data); err != nil {
		c.logFailure(ctx, analyzePath, err)
		return nil, err
	}
	if data.Links.Internal < 0 || data.Links.External < 0 || data.Links.Inaccessible < 0 {
		err := &errs.AppError{
			Kind:    errs.Shape,
			Message: "The backend returned an invalid response.",
			Cause:   errNegativeLinkCount,
		}
		c.logFailure(ctx, analyzePath, err)
		return nil, err
	}
	data.Normalize()
	return &data, nil
}

// get issues an uncached GET against the backend and returns the body of a
// 2xx response.
func (c *Client) get(ctx context.Context, pathAndQuery string) ([]byte, error) {
	endpoint, _, _ := strings.Cut(pathAndQuery, "?")
	target := c.BaseURL() + pathAndQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		appErr := &errs.AppError{
			Kind:    errs.Transport,
			Message: fmt.Sprintf("Invalid backend address %q.", c.BaseURL()),
			Cause:   err,
		}
		c.logFailure(ctx, endpoint, appErr)
		return nil, appErr
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		appErr := transportError(err)
		c.logFailure(ctx, endpoint, appErr)
		return nil, appErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		appErr := transportError(err)
		c.logFailure(ctx, endpoint, appErr)
		return nil, appErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := upstreamError(resp.StatusCode, body)
		c.logFailure(ctx, endpoint, appErr)
		return nil, appErr
	}

	c.logger.Debug("backend call complete",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", requestid.FromContext(ctx),
	)
	return body, nil
}

func (c *Client) logFailure(ctx context.Context, endpoint string, err error) {
	attrs := []any{
		"endpoint", endpoint,
		"kind", errs.KindOf(err).String(),
		"error", err,
		"request_id", requestid.FromContext(ctx),
	}
	var appErr *errs.AppError
	if errors.As(err, &appErr) && appErr.UpstreamStatus != 0 {
		attrs = append(attrs, "status", appErr.UpstreamStatus)
	}
	c.logger.Warn("backend call failed", attrs...)
}

// decodeChecked validates body against the contract before decoding it into v.
func decodeChecked(body []byte, valid func(any) bool, v any) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return &errs.AppError{
			Kind:    errs.Shape,
			Message: "The backend returned a malformed response.",
			Cause:   err,
		}
	}
	if !valid(doc) {
		return &errs.AppError{
			Kind:    errs.Shape,
			Message: "The backend returned an incomplete response.",
		}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &errs.AppError{
			Kind:    errs.Shape,
			Message: "The backend returned an invalid response.",
			Cause:   err,
		}
	}
	return nil
}

func transportError(err error) *errs.AppError {
	kind := errs.Transport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = errs.Timeout
	}
	return &errs.AppError{Kind: kind, Message: err.Error(), Cause: err}
}

// upstreamError prefers the message from a structured error body and falls
// back to the status line.
func upstreamError(status int, body []byte) *errs.AppError {
	appErr := &errs.AppError{
		Kind:           errs.Upstream,
		UpstreamStatus: status,
		Message:        fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
	}

	var payload model.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			appErr.Message = msg
		}
		appErr.Code = payload.CodeString()
	}
	return appErr
}

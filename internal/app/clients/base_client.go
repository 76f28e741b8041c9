// Package clients talks to the content, follow and messaging services that
// own the portal's state.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
	"github.com/yigit/alumnet/internal/pkg/helpers"
	"github.com/yigit/alumnet/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of an upstream error body is read
const maxErrorBody = 64 << 10

// Options configures one upstream client
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	RetryMaxElapsed   time.Duration
	HTTPClient        *http.Client
}

// baseClient holds the transport concerns shared by every upstream client
type baseClient struct {
	service         string
	baseURL         string
	http            *http.Client
	limiter         *rate.Limiter
	retryMaxElapsed time.Duration
	logger          zerolog.Logger
}

func newBaseClient(service string, opts Options, logger zerolog.Logger) *baseClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &baseClient{
		service:         service,
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		http:            httpClient,
		limiter:         rate.NewLimiter(limit, burst),
		retryMaxElapsed: opts.RetryMaxElapsed,
		logger:          logger.With().Str("upstream", service).Logger(),
	}
}

// upstreamError is the error body shape of the portal services. Both a flat
// {code,message} and the wrapped {error:{code,message}} envelope are accepted.
type upstreamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e upstreamError) codeAndMessage() (string, string) {
	if e.Error != nil && (e.Error.Code != "" || e.Error.Message != "") {
		return e.Error.Code, e.Error.Message
	}
	return e.Code, e.Message
}

// do performs one upstream call. GETs are retried with exponential backoff on
// network or server failures; mutating calls are attempted exactly once.
func (c *baseClient) do(ctx context.Context, sess session.Session, operation, method, path string, body, out interface{}) error {
	start := time.Now()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
	}

	attempt := func() error {
		err := c.roundTrip(ctx, sess, method, path, payload, out)
		if err != nil && !apperrors.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var err error
	if method == http.MethodGet && c.retryMaxElapsed > 0 {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 100 * time.Millisecond
		bo.MaxInterval = time.Second
		bo.MaxElapsedTime = c.retryMaxElapsed
		err = backoff.RetryNotify(attempt, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
			c.logger.Warn().Err(err).Str("operation", operation).Dur("wait", wait).Msg("Retrying upstream call")
		})
	} else {
		err = attempt()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.NewNetworkError(fmt.Sprintf("%s service call interrupted", c.service), err)
	}

	metrics.RecordUpstream(c.service, operation, outcome(err), time.Since(start).Seconds())
	if err != nil {
		c.logger.Error().Err(err).Str("operation", operation).Str("method", method).Str("path", path).Msg("Upstream call failed")
		return err
	}
	c.logger.Debug().Str("operation", operation).Dur("latency", time.Since(start)).Msg("Upstream call succeeded")
	return nil
}

func (c *baseClient) roundTrip(ctx context.Context, sess session.Session, method, path string, payload []byte, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("%s service: rate limiter", c.service), err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := sess.AuthorizationHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set(helpers.RequestIDHeader, helpers.RequestIDFromContext(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("%s service unreachable", c.service), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewNetworkError(fmt.Sprintf("%s service returned an unreadable body", c.service), err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return c.mapStatus(resp.StatusCode, raw)
}

// mapStatus translates a non-2xx upstream response into the error taxonomy
func (c *baseClient) mapStatus(status int, raw []byte) error {
	var body upstreamError
	_ = json.Unmarshal(raw, &body)
	code, message := body.codeAndMessage()
	if message == "" {
		message = fmt.Sprintf("%s service responded %d", c.service, status)
	}

	switch {
	case status >= 500:
		return apperrors.NewNetworkError(message, fmt.Errorf("status %d", status))
	case status == http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(message)
	case status == http.StatusForbidden && code == "MESSAGING_NOT_PERMITTED":
		return apperrors.NewMessagingNotPermittedError(message)
	case status == http.StatusUnauthorized:
		return apperrors.NewCustomError(apperrors.ErrTokenInvalid, message)
	case status == http.StatusForbidden:
		return apperrors.NewForbiddenError(message)
	case status == http.StatusConflict:
		return apperrors.NewConflictError(message)
	case status == http.StatusTooManyRequests:
		return apperrors.NewNetworkError(message, fmt.Errorf("status %d", status))
	default:
		return apperrors.NewCustomError(fmt.Errorf("unexpected status %d", status), message).WithCode(code)
	}
}

// outcome labels a call result for metrics
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrNetworkOrServer):
		return "network"
	case errors.Is(err, apperrors.ErrMessagingNotPermitted):
		return "messaging_not_permitted"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "forbidden"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return "unauthorized"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

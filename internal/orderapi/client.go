// Package orderapi is the client of the remote catalog and order service.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/RechkalovAA/weblarek/internal/domain"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
	"github.com/RechkalovAA/weblarek/pkg/httpclient"
	"github.com/RechkalovAA/weblarek/pkg/tracing"
)

const serviceName = "weblarek"

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CircuitOpenFallback answers for the order service while its circuit
// breaker is open, so callers see a retry hint instead of ErrCircuitOpen.
func CircuitOpenFallback(_ context.Context, err error) (*http.Response, error) {
	return nil, apperrors.NetworkFailure("order service is temporarily unavailable, please retry in a moment", err)
}

type productListResponse struct {
	Total int              `json:"total"`
	Items []domain.Product `json:"items"`
}

// Client talks to the order service. Every failure is reported as a
// NetworkFailure AppError whose Message is fit to show to the buyer.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		tracer:  tracing.Tracer("github.com/RechkalovAA/weblarek/internal/orderapi"),
	}
}

// FetchProductList loads the full catalog.
func (c *Client) FetchProductList(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "orderapi.FetchProductList", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var out productListResponse
	if err := c.call(ctx, http.MethodGet, "/product/", nil, &out); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.Product{}
	}

	span.SetAttributes(attribute.Int("weblarek.products", len(out.Items)))
	c.logger.DebugContext(ctx, "product list fetched",
		slog.Int("total", out.Total),
		slog.Int("items", len(out.Items)),
	)
	return out.Items, nil
}

// SubmitOrder places an order. It is never retried automatically.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	ctx, span := c.tracer.Start(ctx, "orderapi.SubmitOrder",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("weblarek.order.items", len(req.Items)),
			attribute.Int64("weblarek.order.total", req.Total),
		),
	)
	defer span.End()

	var out domain.OrderResult
	if err := c.call(ctx, http.MethodPost, "/order", req, &out); err != nil {
		tracing.RecordError(span, err)
		return domain.OrderResult{}, err
	}

	span.SetAttributes(attribute.String("weblarek.order.id", out.ID))
	return out, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, dst any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("marshal %s %s: %w", method, path, err))
		}
		reader = bytes.NewReader(raw)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	}
	if err != nil {
		return apperrors.NetworkFailure("invalid order service address", err)
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return networkFailure(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if httpclient.IsClientError(resp.StatusCode) {
			c.logger.WarnContext(ctx, "order service rejected request",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
			)
		}
		return networkFailure(httpclient.ParseResponseError(resp, serviceName))
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return apperrors.NetworkFailure("unexpected response from order service", fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// networkFailure classifies a transport or upstream error and keeps the
// most useful human-readable message.
func networkFailure(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == "NETWORK_FAILURE" {
			return appErr
		}
		return apperrors.NetworkFailure(appErr.Message, err)
	}

	var srvErr *httpclient.ServerError
	if errors.As(err, &srvErr) {
		msg := srvErr.Message()
		if msg == "" {
			msg = fmt.Sprintf("order service returned status %d", srvErr.StatusCode)
		}
		return apperrors.NetworkFailure(msg, err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NetworkFailure("order service request timeout", err)
	case errors.Is(err, context.Canceled):
		return apperrors.NetworkFailure("request cancelled", err)
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return apperrors.NetworkFailure("order service is temporarily unavailable", err)
	default:
		return apperrors.NetworkFailure("order service is unreachable", err)
	}
}

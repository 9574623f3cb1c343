package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// ServerError is returned by the circuit breaker client for a 5xx response.
// The body has already been drained and closed.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Body)
}

// Message extracts the upstream error message from the body, if any.
func (e *ServerError) Message() string {
	_, msg := decodeErrorBody([]byte(e.Body))
	return msg
}

// downstreamErrorResponse covers both error shapes seen from upstream APIs:
// {"error": "message"} and {"error": {"code": "...", "message": "..."}}.
type downstreamErrorResponse struct {
	Error json.RawMessage `json:"error"`
}

type structuredError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError carrying the upstream message. The response body is
// fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	code, message := decodeErrorBody(bodyBytes)
	if message == "" {
		message = fmt.Sprintf("%s returned status %d", serviceName, resp.StatusCode)
	}
	if code == "" {
		code = "UPSTREAM_ERROR"
	}

	return &apperrors.AppError{
		Code:    code,
		Message: message,
		Status:  resp.StatusCode,
		Err:     sentinelForStatus(resp.StatusCode),
	}
}

func decodeErrorBody(body []byte) (code, message string) {
	var downstream downstreamErrorResponse
	if json.Unmarshal(body, &downstream) != nil || len(downstream.Error) == 0 {
		return "", strings.TrimSpace(string(body))
	}

	var plain string
	if json.Unmarshal(downstream.Error, &plain) == nil {
		return "", plain
	}

	var structured structuredError
	if json.Unmarshal(downstream.Error, &structured) == nil {
		return structured.Code, structured.Message
	}

	return "", strings.TrimSpace(string(body))
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	case status == http.StatusConflict:
		return apperrors.ErrConflict
	case status == http.StatusServiceUnavailable:
		return apperrors.ErrServiceUnavail
	default:
		return apperrors.ErrNetwork
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func parseAppError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	return appErr
}

func TestParseResponseError_PlainStringError(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadRequest, `{"error":"Неверная сумма заказа"}`), "weblarek")

	appErr := parseAppError(t, err)
	assert.Equal(t, "Неверная сумма заказа", appErr.Message)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseResponseError_StructuredError(t *testing.T) {
	body := `{"error":{"code":"NOT_FOUND","message":"product not found"}}`
	err := ParseResponseError(makeResponse(http.StatusNotFound, body), "weblarek")

	appErr := parseAppError(t, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, "product not found", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusBadGateway, "upstream exploded"), "weblarek")

	appErr := parseAppError(t, err)
	assert.Equal(t, "upstream exploded", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestParseResponseError_EmptyBody(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusServiceUnavailable, ""), "weblarek")

	appErr := parseAppError(t, err)
	assert.Equal(t, "weblarek returned status 503", appErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestParseResponseError_Conflict(t *testing.T) {
	err := ParseResponseError(makeResponse(http.StatusConflict, `{"error":"duplicate"}`), "weblarek")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(400))
	assert.True(t, IsClientError(499))
	assert.False(t, IsClientError(500))
	assert.False(t, IsClientError(200))
}

func TestServerError_Message(t *testing.T) {
	assert.Equal(t, "timeout", (&ServerError{StatusCode: 504, Body: `{"error":"timeout"}`}).Message())
	assert.Equal(t, "db down", (&ServerError{StatusCode: 500, Body: `{"error":{"code":"X","message":"db down"}}`}).Message())
	assert.Equal(t, "", (&ServerError{StatusCode: 502}).Message())
}

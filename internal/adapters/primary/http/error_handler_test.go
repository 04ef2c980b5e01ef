package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/ticket-metrics-backend/internal/core/errors"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewErrorHandler(logger)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/metrics", nil)
	recorder := httptest.NewRecorder()
	handler.Handle(recorder, req, err)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	return recorder, response
}

func TestErrorHandler_InvalidDays(t *testing.T) {
	recorder, response := handleError(t, apperrors.ErrInvalidDays)

	assert.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
	assert.Equal(t, "INVALID_DAYS", response.Code)
	assert.Equal(t, "days must be between 1 and 365", response.Error)
}

func TestErrorHandler_AppErrorPassthrough(t *testing.T) {
	appErr := apperrors.NewBadRequestError(apperrors.ErrInvalidDays, "days must be an integer")
	recorder, response := handleError(t, appErr)

	assert.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
	assert.Equal(t, "BAD_REQUEST", response.Code)
	assert.Equal(t, "days must be an integer", response.Error)
}

func TestErrorHandler_InternalAppError(t *testing.T) {
	appErr := apperrors.NewInternalError(errors.New("pool exhausted"))
	recorder, response := handleError(t, appErr)

	assert.Equal(t, stdhttp.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", response.Code)
	assert.NotContains(t, response.Error, "pool exhausted")
}

func TestErrorHandler_ReferenceDataHidden(t *testing.T) {
	recorder, response := handleError(t, apperrors.ErrReferenceDataUnavailable)

	assert.Equal(t, stdhttp.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", response.Code)
	assert.NotContains(t, response.Error, "reference")
}

func TestErrorHandler_UnknownError(t *testing.T) {
	recorder, response := handleError(t, errors.New("something broke"))

	assert.Equal(t, stdhttp.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", response.Code)
	assert.NotContains(t, response.Error, "something broke")
}

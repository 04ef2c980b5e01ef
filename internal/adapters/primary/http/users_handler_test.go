package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-metrics-backend/internal/core/mocks"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

type userListResponse struct {
	Data  []string `json:"data"`
	Count int      `json:"count"`
}

func newUsersRouter(directory ports.UserDirectory) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	handler := NewUsersHandler(directory, errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/users", handler.RegisterRoutes)
	return router
}

func TestHandleListUsers(t *testing.T) {
	directory := mocks.NewMockUserDirectory()
	directory.On("ListUsers", mock.Anything).Return([]string{"alice", "bob"}, nil)

	router := newUsersRouter(directory)

	req := httptest.NewRequest(stdhttp.MethodGet, "/users", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response userListResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, []string{"alice", "bob"}, response.Data)
	assert.Equal(t, 2, response.Count)
}

func TestHandleListUsers_Empty(t *testing.T) {
	directory := mocks.NewMockUserDirectory()
	directory.On("ListUsers", mock.Anything).Return([]string{}, nil)

	router := newUsersRouter(directory)

	req := httptest.NewRequest(stdhttp.MethodGet, "/users", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response userListResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Empty(t, response.Data)
	assert.Equal(t, 0, response.Count)
}

func TestHandleListUsers_RepositoryFailure(t *testing.T) {
	directory := mocks.NewMockUserDirectory()
	directory.On("ListUsers", mock.Anything).Return(nil, errors.New("read failed"))

	router := newUsersRouter(directory)

	req := httptest.NewRequest(stdhttp.MethodGet, "/users", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusInternalServerError, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "INTERNAL_ERROR", response.Code)
}

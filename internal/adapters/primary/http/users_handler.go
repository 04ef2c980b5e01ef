package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

// UsersHandler handles HTTP requests for the user directory
type UsersHandler struct {
	directory    ports.UserDirectory
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(
	directory ports.UserDirectory,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *UsersHandler {
	return &UsersHandler{
		directory:    directory,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "users"),
	}
}

// Router sets up a new chi Router for the user directory routes.
func (h *UsersHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the user directory endpoints.
func (h *UsersHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListUsers)
}

// HandleListUsers returns the usernames known to the access-grant records.
// GET /api/v1/users
func (h *UsersHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, users)
}

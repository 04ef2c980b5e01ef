package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/ticket-metrics-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/ticket-metrics-backend/internal/core/errors"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
	"github.com/lorrc/ticket-metrics-backend/internal/infrastructure/logging"
)

const defaultReportDays = 30

// MetricsHandler handles HTTP requests for the metrics report
type MetricsHandler struct {
	metricsService ports.MetricsService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(
	metricsService ports.MetricsService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "metrics"),
	}
}

// Router sets up a new chi Router for the metrics routes.
func (h *MetricsHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the metrics endpoints.
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetMetrics)
}

// HandleGetMetrics computes the incident / service-request report.
// GET /api/v1/metrics?username=&days=
//
// The username query parameter takes precedence over the bearer-token
// identity. Requests with neither produce an unfiltered report.
func (h *MetricsHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	days := defaultReportDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(apperrors.ErrInvalidDays, "days must be an integer"))
			return
		}
		days = parsed
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		username = mw.GetUsername(r.Context())
	}

	ctx := r.Context()
	if username != "" {
		ctx = logging.WithUsername(ctx, username)
	}

	report, err := h.metricsService.GetMetrics(ctx, ports.GetMetricsParams{
		Username: username,
		Days:     days,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, report)
}

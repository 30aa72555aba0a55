package handler

import (
	"collection-engine/internal/api/handler/dto"
	"collection-engine/internal/api/middleware"
	"collection-engine/internal/config"
	"collection-engine/internal/domain/collector"
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/domain/report"
	"collection-engine/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type CollectorHandler struct {
	service   collector.CollectorService
	customers customer.CustomerService
	reports   report.ReportService
	authCfg   config.AuthConfig
	logger    *slog.Logger
}

func NewCollectorHandler(
	s collector.CollectorService,
	customers customer.CustomerService,
	reports report.ReportService,
	authCfg config.AuthConfig,
	l *slog.Logger,
) *CollectorHandler {
	if s == nil || customers == nil || reports == nil {
		panic("collector handler services cannot be nil")
	}
	return &CollectorHandler{
		service:   s,
		customers: customers,
		reports:   reports,
		authCfg:   authCfg,
		logger:    l.With("component", "CollectorHandler"),
	}
}

func getCollectorIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "collectorID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: collectorID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid collectorID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// collectorIDFromClaims resolves the caller's collector identity. With
// auth disabled there are no claims, so the ID comes from a query
// parameter instead.
func collectorIDFromClaims(r *http.Request) (int64, error) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		idStr := r.URL.Query().Get("collectorId")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("%w: collectorId query parameter required when auth is disabled", apperrors.ErrInvalidArgument)
		}
		return id, nil
	}
	if claims.CollectorID <= 0 {
		return 0, fmt.Errorf("%w: token does not identify a collector", apperrors.ErrForbidden)
	}
	return claims.CollectorID, nil
}

// CreateCollector handles POST /collectors
func (h *CollectorHandler) CreateCollector(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCollectorRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.CreateCollector(r.Context(), req.Name, req.Phone, req.Area, req.Password)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create collector", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCollectorResponse(created)
	h.logger.InfoContext(r.Context(), "Collector created successfully", slog.String("collectorID", resp.CollectorID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetCollector handles GET /collectors/{collectorID}
func (h *CollectorHandler) GetCollector(w http.ResponseWriter, r *http.Request) {
	collectorID, err := getCollectorIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	coll, err := h.service.GetCollector(r.Context(), collectorID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get collector", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCollectorResponse(coll))
}

// ListCollectors handles GET /collectors
func (h *CollectorHandler) ListCollectors(w http.ResponseWriter, r *http.Request) {
	collectors, err := h.service.ListCollectors(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list collectors", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CollectorResponse, len(collectors))
	for i, coll := range collectors {
		resp[i] = dto.NewCollectorResponse(coll)
	}
	respondJSON(w, http.StatusOK, resp)
}

// DeleteCollector handles DELETE /collectors/{collectorID}
func (h *CollectorHandler) DeleteCollector(w http.ResponseWriter, r *http.Request) {
	collectorID, err := getCollectorIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCollector(r.Context(), collectorID); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete collector", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Collector deleted successfully", slog.Int64("collectorID", collectorID))
	respondJSON(w, http.StatusNoContent, nil)
}

// Login handles POST /collectors/login
func (h *CollectorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CollectorLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	coll, err := h.service.Authenticate(r.Context(), req.Phone, req.Password)
	if err != nil {
		// An unknown phone and a wrong password both read as invalid
		// credentials to the caller.
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUnauthorized) {
			respondError(w, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized))
			return
		}
		h.logger.ErrorContext(r.Context(), "Service failed to authenticate collector", slog.Any("error", err))
		respondError(w, err)
		return
	}

	token, err := issueToken(h.authCfg, middleware.RoleCollector, coll.CollectorID, "")
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign collector token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: could not issue token", apperrors.ErrInternalServer))
		return
	}

	resp := dto.NewCollectorResponse(coll)
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: token, Collector: &resp})
}

// Dashboard handles GET /collectors/me/dashboard
func (h *CollectorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	collectorID, err := collectorIDFromClaims(r)
	if err != nil {
		respondError(w, err)
		return
	}

	dash, err := h.reports.GetCollectorDashboard(r.Context(), collectorID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to build collector dashboard", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCollectorDashboardResponse(dash))
}

// MyCustomers handles GET /collectors/me/customers
func (h *CollectorHandler) MyCustomers(w http.ResponseWriter, r *http.Request) {
	collectorID, err := collectorIDFromClaims(r)
	if err != nil {
		respondError(w, err)
		return
	}

	customers, err := h.customers.ListCustomers(r.Context(), customer.Filter{AssignedTo: &collectorID})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list assigned customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = dto.NewCustomerResponse(cust, false)
	}
	respondJSON(w, http.StatusOK, resp)
}

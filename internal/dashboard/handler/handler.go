package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/dashboard/models"
	identitymodels "github.com/chrisstorey/community-building-manager/internal/identity/models"
	"github.com/chrisstorey/community-building-manager/internal/platform/middleware"
	"github.com/chrisstorey/community-building-manager/internal/transport/http/shared"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/dashboard-mocks.go -package=mocks Service

// Service defines the interface for dashboard reporting.
type Service interface {
	Stats(ctx context.Context, orgID uuid.UUID) (*models.Stats, error)
	Outstanding(ctx context.Context, orgID uuid.UUID) ([]models.ItemRow, error)
	DueSoon(ctx context.Context, orgID uuid.UUID) ([]models.ItemRow, error)
}

// Handler handles dashboard endpoints.
type Handler struct {
	logger       *slog.Logger
	dashboard    Service
	jwtValidator middleware.JWTValidator
}

func New(dashboard Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		dashboard:    dashboard,
		jwtValidator: jwtValidator,
	}
}

// Register registers the dashboard routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		r.Get("/stats/{orgID}", h.handleStats)
		r.Get("/outstanding/{orgID}", h.handleOutstanding)
		r.Get("/due-soon/{orgID}", h.handleDueSoon)
	})
}

// authorizeOrg blocks viewers and managers from reading another organization's
// dashboard. Admins may read any.
func (h *Handler) authorizeOrg(r *http.Request) (uuid.UUID, error) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid organization id")
	}

	ctx := r.Context()
	if middleware.GetRole(ctx) == string(identitymodels.RoleAdmin) {
		return orgID, nil
	}
	if middleware.GetOrganizationID(ctx) != orgID.String() {
		h.logger.WarnContext(ctx, "cross-organization dashboard access denied",
			"request_id", middleware.GetRequestID(ctx),
			"organization_id", orgID,
		)
		return uuid.Nil, dErrors.New(dErrors.CodeForbidden, "access to this organization is not permitted")
	}
	return orgID, nil
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.authorizeOrg(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	stats, err := h.dashboard.Stats(r.Context(), orgID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleOutstanding(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.authorizeOrg(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rows, err := h.dashboard.Outstanding(r.Context(), orgID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleDueSoon(w http.ResponseWriter, r *http.Request) {
	orgID, err := h.authorizeOrg(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	rows, err := h.dashboard.DueSoon(r.Context(), orgID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rows)
}

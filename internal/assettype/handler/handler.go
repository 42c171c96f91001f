package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/assettype/models"
	identitymodels "github.com/chrisstorey/community-building-manager/internal/identity/models"
	"github.com/chrisstorey/community-building-manager/internal/platform/middleware"
	"github.com/chrisstorey/community-building-manager/internal/transport/http/shared"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// Service defines the interface for asset type operations.
type Service interface {
	Create(ctx context.Context, name, description, templateText string) (*models.AssetType, error)
	Get(ctx context.Context, id uuid.UUID) (*models.AssetType, error)
	List(ctx context.Context, offset, limit int) ([]models.AssetType, error)
	RenderPreview(ctx context.Context, id uuid.UUID) (string, error)
}

// Handler handles asset type endpoints.
type Handler struct {
	logger       *slog.Logger
	assetTypes   Service
	jwtValidator middleware.JWTValidator
}

func New(assetTypes Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		assetTypes:   assetTypes,
		jwtValidator: jwtValidator,
	}
}

// Register registers the asset type routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/asset-types", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		r.Get("/", h.handleList)
		r.Get("/{assetTypeID}", h.handleGet)
		r.Get("/{assetTypeID}/preview", h.handlePreview)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(h.logger, string(identitymodels.RoleAdmin)))
			r.Post("/", h.handleCreate)
		})
	})
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Template    string `json:"template"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	at, err := h.assetTypes.Create(ctx, req.Name, req.Description, req.Template)
	if err != nil {
		h.logger.WarnContext(ctx, "asset type creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, at)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "assetTypeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset type id"))
		return
	}

	at, err := h.assetTypes.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, at)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r, 0, 100)
	types, err := h.assetTypes.List(r.Context(), offset, limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if types == nil {
		types = []models.AssetType{}
	}
	shared.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "assetTypeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset type id"))
		return
	}

	html, err := h.assetTypes.RenderPreview(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func pagination(r *http.Request, defaultOffset, defaultLimit int) (int, int) {
	offset := defaultOffset
	limit := defaultLimit
	if raw := r.URL.Query().Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 1000 {
			limit = v
		}
	}
	return offset, limit
}

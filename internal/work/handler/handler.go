package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	identitymodels "github.com/chrisstorey/community-building-manager/internal/identity/models"
	"github.com/chrisstorey/community-building-manager/internal/platform/middleware"
	"github.com/chrisstorey/community-building-manager/internal/transport/http/shared"
	"github.com/chrisstorey/community-building-manager/internal/work/models"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// Service defines the interface for work area and item operations.
type Service interface {
	ListAreas(ctx context.Context, assetID uuid.UUID) ([]models.WorkArea, error)
	GetArea(ctx context.Context, areaID uuid.UUID) (*models.WorkArea, error)
	SetAreaRelevance(ctx context.Context, areaID uuid.UUID, isRelevant bool) (*models.WorkArea, error)
	ListItems(ctx context.Context, areaID uuid.UUID) ([]models.WorkItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.WorkItem, error)
	AddItemUpdate(ctx context.Context, itemID, userID uuid.UUID, narrative string, reviewDate *time.Time) (*models.ItemUpdate, error)
	ListItemUpdates(ctx context.Context, itemID uuid.UUID) ([]models.ItemUpdate, error)
}

// Handler handles work area, work item, and item update endpoints.
type Handler struct {
	logger       *slog.Logger
	work         Service
	jwtValidator middleware.JWTValidator
}

func New(work Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		work:         work,
		jwtValidator: jwtValidator,
	}
}

// Register registers the work routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/work", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		r.Get("/assets/{assetID}/areas", h.handleListAreas)
		r.Get("/areas/{areaID}", h.handleGetArea)
		r.Get("/areas/{areaID}/items", h.handleListItems)
		r.Get("/items/{itemID}", h.handleGetItem)
		r.Get("/items/{itemID}/updates", h.handleListUpdates)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(h.logger,
				string(identitymodels.RoleAdmin), string(identitymodels.RoleManager)))
			r.Patch("/areas/{areaID}/relevance", h.handleSetRelevance)
			r.Post("/items/{itemID}/updates", h.handleAddUpdate)
		})
	})
}

func (h *Handler) handleListAreas(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "assetID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset id"))
		return
	}

	areas, err := h.work.ListAreas(r.Context(), assetID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if areas == nil {
		areas = []models.WorkArea{}
	}
	shared.WriteJSON(w, http.StatusOK, areas)
}

func (h *Handler) handleGetArea(w http.ResponseWriter, r *http.Request) {
	areaID, err := uuid.Parse(chi.URLParam(r, "areaID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid work area id"))
		return
	}

	area, err := h.work.GetArea(r.Context(), areaID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, area)
}

type relevanceRequest struct {
	IsRelevant *bool `json:"is_relevant"`
}

func (h *Handler) handleSetRelevance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	areaID, err := uuid.Parse(chi.URLParam(r, "areaID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid work area id"))
		return
	}

	var req relevanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsRelevant == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "is_relevant is required"))
		return
	}

	area, err := h.work.SetAreaRelevance(ctx, areaID, *req.IsRelevant)
	if err != nil {
		h.logger.WarnContext(ctx, "relevance update failed",
			"request_id", middleware.GetRequestID(ctx),
			"area_id", areaID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, area)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	areaID, err := uuid.Parse(chi.URLParam(r, "areaID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid work area id"))
		return
	}

	items, err := h.work.ListItems(r.Context(), areaID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if items == nil {
		items = []models.WorkItem{}
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid work item id"))
		return
	}

	item, err := h.work.GetItem(r.Context(), itemID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

type addUpdateRequest struct {
	Narrative  string     `json:"narrative"`
	ReviewDate *time.Time `json:"review_date"`
}

func (h *Handler) handleAddUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid work item id"))
		return
	}

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req addUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	update, err := h.work.AddItemUpdate(ctx, itemID, userID, req.Narrative, req.ReviewDate)
	if err != nil {
		h.logger.WarnContext(ctx, "item update failed",
			"request_id", middleware.GetRequestID(ctx),
			"item_id", itemID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, update)
}

func (h *Handler) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid work item id"))
		return
	}

	updates, err := h.work.ListItemUpdates(r.Context(), itemID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if updates == nil {
		updates = []models.ItemUpdate{}
	}
	shared.WriteJSON(w, http.StatusOK, updates)
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	identitymodels "github.com/chrisstorey/community-building-manager/internal/identity/models"
	"github.com/chrisstorey/community-building-manager/internal/organization/models"
	"github.com/chrisstorey/community-building-manager/internal/platform/middleware"
	"github.com/chrisstorey/community-building-manager/internal/transport/http/shared"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// Service defines the interface for organization, location, and asset
// operations.
type Service interface {
	CreateOrganization(ctx context.Context, name, address string, parentID *uuid.UUID) (*models.Organization, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	PatchOrganization(ctx context.Context, id uuid.UUID, patch models.OrganizationPatch) (*models.Organization, error)
	AddKeyContact(ctx context.Context, orgID uuid.UUID, name, title, email, phone string) (*models.KeyContact, error)
	ListKeyContacts(ctx context.Context, orgID uuid.UUID) ([]models.KeyContact, error)
	AddLocation(ctx context.Context, orgID uuid.UUID, name, address string) (*models.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListLocations(ctx context.Context, orgID uuid.UUID) ([]models.Location, error)
	PatchLocation(ctx context.Context, id uuid.UUID, patch models.LocationPatch) (*models.Location, error)
	AttachAsset(ctx context.Context, locationID, assetTypeID uuid.UUID) (*models.LocationAsset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*models.LocationAsset, error)
	ListAssets(ctx context.Context, locationID uuid.UUID) ([]models.LocationAsset, error)
}

// Handler handles organization endpoints.
type Handler struct {
	logger       *slog.Logger
	orgs         Service
	jwtValidator middleware.JWTValidator
}

func New(orgs Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		orgs:         orgs,
		jwtValidator: jwtValidator,
	}
}

// Register registers the organization routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/organizations", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		r.Get("/", h.handleList)
		r.Get("/{orgID}", h.handleGet)
		r.Get("/{orgID}/contacts", h.handleListContacts)
		r.Get("/{orgID}/locations", h.handleListLocations)
		r.Get("/locations/{locationID}", h.handleGetLocation)
		r.Get("/locations/{locationID}/assets", h.handleListAssets)
		r.Get("/assets/{assetID}", h.handleGetAsset)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(h.logger,
				string(identitymodels.RoleAdmin), string(identitymodels.RoleManager)))
			r.Post("/", h.handleCreate)
			r.Patch("/{orgID}", h.handlePatch)
			r.Post("/{orgID}/contacts", h.handleAddContact)
			r.Post("/{orgID}/locations", h.handleAddLocation)
			r.Patch("/locations/{locationID}", h.handlePatchLocation)
			r.Post("/locations/{locationID}/assets/{assetTypeID}", h.handleAttachAsset)
		})
	})
}

type createOrganizationRequest struct {
	Name                 string     `json:"name"`
	Address              string     `json:"address"`
	ParentOrganizationID *uuid.UUID `json:"parent_organization_id"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	org, err := h.orgs.CreateOrganization(ctx, req.Name, req.Address, req.ParentOrganizationID)
	if err != nil {
		h.logger.WarnContext(ctx, "organization creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, org)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgs.ListOrganizations(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}
	shared.WriteJSON(w, http.StatusOK, orgs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}

	org, err := h.orgs.GetOrganization(r.Context(), orgID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, org)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}

	var patch models.OrganizationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	org, err := h.orgs.PatchOrganization(r.Context(), orgID, patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, org)
}

type addContactRequest struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) handleAddContact(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}

	var req addContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	contact, err := h.orgs.AddKeyContact(r.Context(), orgID, req.Name, req.Title, req.Email, req.Phone)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, contact)
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}

	contacts, err := h.orgs.ListKeyContacts(r.Context(), orgID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if contacts == nil {
		contacts = []models.KeyContact{}
	}
	shared.WriteJSON(w, http.StatusOK, contacts)
}

type addLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *Handler) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}

	var req addLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	loc, err := h.orgs.AddLocation(r.Context(), orgID, req.Name, req.Address)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, loc)
}

func (h *Handler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return
	}

	locs, err := h.orgs.ListLocations(r.Context(), orgID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if locs == nil {
		locs = []models.Location{}
	}
	shared.WriteJSON(w, http.StatusOK, locs)
}

func (h *Handler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid location id"))
		return
	}

	loc, err := h.orgs.GetLocation(r.Context(), locationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) handlePatchLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid location id"))
		return
	}

	var patch models.LocationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	loc, err := h.orgs.PatchLocation(r.Context(), locationID, patch)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) handleAttachAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid location id"))
		return
	}
	assetTypeID, err := uuid.Parse(chi.URLParam(r, "assetTypeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset type id"))
		return
	}

	asset, err := h.orgs.AttachAsset(ctx, locationID, assetTypeID)
	if err != nil {
		h.logger.WarnContext(ctx, "asset attachment failed",
			"request_id", middleware.GetRequestID(ctx),
			"location_id", locationID,
			"asset_type_id", assetTypeID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, asset)
}

func (h *Handler) handleListAssets(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid location id"))
		return
	}

	assets, err := h.orgs.ListAssets(r.Context(), locationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if assets == nil {
		assets = []models.LocationAsset{}
	}
	shared.WriteJSON(w, http.StatusOK, assets)
}

func (h *Handler) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "assetID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset id"))
		return
	}

	asset, err := h.orgs.GetAsset(r.Context(), assetID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, asset)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	assettypemodels "github.com/chrisstorey/community-building-manager/internal/assettype/models"
	"github.com/chrisstorey/community-building-manager/internal/organization/models"
	"github.com/chrisstorey/community-building-manager/internal/platform/metrics"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

// Store is the persistence boundary for organizations, contacts, locations,
// and asset instances.
type Store interface {
	CreateOrganization(ctx context.Context, org *models.Organization) error
	FindOrganizationByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, org *models.Organization) error
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	CreateKeyContact(ctx context.Context, contact *models.KeyContact) error
	ListKeyContactsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.KeyContact, error)
	CreateLocation(ctx context.Context, loc *models.Location) error
	FindLocationByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	UpdateLocation(ctx context.Context, loc *models.Location) error
	ListLocationsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Location, error)
	CreateAsset(ctx context.Context, asset *models.LocationAsset) error
	FindAssetByID(ctx context.Context, id uuid.UUID) (*models.LocationAsset, error)
	ListAssetsByLocation(ctx context.Context, locationID uuid.UUID) ([]models.LocationAsset, error)
	ListAssetsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.LocationAsset, error)
}

// AssetTypeLookup resolves asset types; attachment needs the template text.
type AssetTypeLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*assettypemodels.AssetType, error)
}

// WorkGenerator expands an asset type template into persisted work areas and
// items for a freshly attached asset.
type WorkGenerator interface {
	GenerateForAsset(ctx context.Context, assetID uuid.UUID, templateText string) ([]template.AreaGroup, error)
}

// Service owns the organization aggregate: organizations, their key contacts,
// locations, and attached assets.
type Service struct {
	store      Store
	assetTypes AssetTypeLookup
	work       WorkGenerator
	runner     txcontext.Runner
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func New(store Store, assetTypes AssetTypeLookup, work WorkGenerator, runner txcontext.Runner, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:      store,
		assetTypes: assetTypes,
		work:       work,
		runner:     runner,
		logger:     logger,
		metrics:    m,
	}
}

func (s *Service) CreateOrganization(ctx context.Context, name, address string, parentID *uuid.UUID) (*models.Organization, error) {
	if parentID != nil {
		if _, err := s.GetOrganization(ctx, *parentID); err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "parent organization not found")
		}
	}

	org, err := models.NewOrganization(name, address, parentID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateOrganization(ctx, org); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create organization")
	}
	s.logger.InfoContext(ctx, "organization created", "organization_id", org.ID, "name", org.Name)
	return org, nil
}

func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.store.FindOrganizationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "organization not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up organization")
	}
	return org, nil
}

func (s *Service) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := s.store.ListOrganizations(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list organizations")
	}
	return orgs, nil
}

func (s *Service) PatchOrganization(ctx context.Context, id uuid.UUID, patch models.OrganizationPatch) (*models.Organization, error) {
	org, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "organization name is required")
		}
		org.Name = *patch.Name
	}
	if patch.Address != nil {
		org.Address = *patch.Address
	}
	if patch.ParentOrganizationID != nil {
		if *patch.ParentOrganizationID == id {
			return nil, dErrors.New(dErrors.CodeBadRequest, "organization cannot be its own parent")
		}
		org.ParentOrganizationID = patch.ParentOrganizationID
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "organization not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update organization")
	}
	return org, nil
}

func (s *Service) AddKeyContact(ctx context.Context, orgID uuid.UUID, name, title, email, phone string) (*models.KeyContact, error) {
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	contact, err := models.NewKeyContact(orgID, name, title, email, phone, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateKeyContact(ctx, contact); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "organization not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create key contact")
	}
	return contact, nil
}

func (s *Service) ListKeyContacts(ctx context.Context, orgID uuid.UUID) ([]models.KeyContact, error) {
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	contacts, err := s.store.ListKeyContactsByOrganization(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list key contacts")
	}
	return contacts, nil
}

func (s *Service) AddLocation(ctx context.Context, orgID uuid.UUID, name, address string) (*models.Location, error) {
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	loc, err := models.NewLocation(orgID, name, address, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateLocation(ctx, loc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "organization not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create location")
	}
	s.logger.InfoContext(ctx, "location created", "organization_id", orgID, "location_id", loc.ID)
	return loc, nil
}

func (s *Service) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	loc, err := s.store.FindLocationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up location")
	}
	return loc, nil
}

func (s *Service) ListLocations(ctx context.Context, orgID uuid.UUID) ([]models.Location, error) {
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	locs, err := s.store.ListLocationsByOrganization(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list locations")
	}
	return locs, nil
}

func (s *Service) PatchLocation(ctx context.Context, id uuid.UUID, patch models.LocationPatch) (*models.Location, error) {
	loc, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "location name is required")
		}
		loc.Name = *patch.Name
	}
	if patch.Address != nil {
		if *patch.Address == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "location address is required")
		}
		loc.Address = *patch.Address
	}
	loc.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateLocation(ctx, loc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update location")
	}
	return loc, nil
}

// AttachAsset creates an asset instance at a location and expands the asset
// type's template into work areas and items. The template is validated before
// any write, and the asset insert plus the generated rows run in one
// transaction, so a malformed template or a mid-write failure leaves nothing
// behind.
func (s *Service) AttachAsset(ctx context.Context, locationID, assetTypeID uuid.UUID) (*models.LocationAsset, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	assetType, err := s.assetTypes.Get(ctx, assetTypeID)
	if err != nil {
		return nil, err
	}
	if err := template.Validate(assetType.Template); err != nil {
		var malformed *template.MalformedTemplateError
		if errors.As(err, &malformed) {
			return nil, dErrors.New(dErrors.CodeMalformedTemplate, malformed.Error())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "template validation failed")
	}

	asset := models.NewLocationAsset(locationID, assetTypeID, time.Now().UTC())
	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateAsset(ctx, asset); err != nil {
			return err
		}
		_, err := s.work.GenerateForAsset(ctx, asset.ID, assetType.Template)
		return err
	})
	if err != nil {
		var domainErr dErrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "location not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach asset")
	}

	s.metrics.IncrementAssetsAttached()
	s.logger.InfoContext(ctx, "asset attached",
		"location_id", locationID,
		"asset_type_id", assetTypeID,
		"asset_id", asset.ID,
	)
	return asset, nil
}

func (s *Service) GetAsset(ctx context.Context, id uuid.UUID) (*models.LocationAsset, error) {
	asset, err := s.store.FindAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up asset")
	}
	return asset, nil
}

func (s *Service) ListAssets(ctx context.Context, locationID uuid.UUID) ([]models.LocationAsset, error) {
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	assets, err := s.store.ListAssetsByLocation(ctx, locationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assets")
	}
	return assets, nil
}

// ListAssetsByOrganization is used by the dashboard to scope reporting to the
// caller's organization.
func (s *Service) ListAssetsByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.LocationAsset, error) {
	assets, err := s.store.ListAssetsByOrganization(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assets")
	}
	return assets, nil
}

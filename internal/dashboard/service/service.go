package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chrisstorey/community-building-manager/internal/dashboard/models"
	orgmodels "github.com/chrisstorey/community-building-manager/internal/organization/models"
	workmodels "github.com/chrisstorey/community-building-manager/internal/work/models"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// reviewHorizon is how far ahead a review date counts as "due soon".
const reviewHorizon = 30 * 24 * time.Hour

// OrganizationDirectory resolves the organization's locations and assets.
type OrganizationDirectory interface {
	GetOrganization(ctx context.Context, id uuid.UUID) (*orgmodels.Organization, error)
	ListLocations(ctx context.Context, orgID uuid.UUID) ([]orgmodels.Location, error)
	ListAssetsByOrganization(ctx context.Context, orgID uuid.UUID) ([]orgmodels.LocationAsset, error)
}

// StatusSource provides per-item reporting rows from the work store.
type StatusSource interface {
	ListItemStatusByAssets(ctx context.Context, assetIDs []uuid.UUID, now, horizon time.Time) ([]workmodels.ItemStatus, error)
}

// Service assembles the reporting dashboard for one organization.
type Service struct {
	orgs   OrganizationDirectory
	status StatusSource
	logger *slog.Logger
}

func New(orgs OrganizationDirectory, status StatusSource, logger *slog.Logger) *Service {
	return &Service{orgs: orgs, status: status, logger: logger}
}

// Stats returns the headline counts for an organization. Location, asset, and
// item lookups are independent reads and run concurrently.
func (s *Service) Stats(ctx context.Context, orgID uuid.UUID) (*models.Stats, error) {
	if _, err := s.orgs.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	var (
		locations []orgmodels.Location
		statuses  []workmodels.ItemStatus
		assets    []orgmodels.LocationAsset
	)
	now := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locations, err = s.orgs.ListLocations(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.orgs.ListAssetsByOrganization(gctx, orgID)
		if err != nil {
			return err
		}
		statuses, err = s.status.ListItemStatusByAssets(gctx, assetIDs(assets), now, now.Add(reviewHorizon))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assemble dashboard stats")
	}

	stats := &models.Stats{
		OrganizationID: orgID,
		LocationCount:  len(locations),
		AssetCount:     len(assets),
		ItemCount:      len(statuses),
	}
	for _, status := range statuses {
		if outstanding(status) {
			stats.OutstandingCount++
		}
		if status.HasReviewDue {
			stats.DueSoonCount++
		}
	}
	return stats, nil
}

// Outstanding lists the items an organization should act on: items with no
// recorded updates, or with an overdue review date.
func (s *Service) Outstanding(ctx context.Context, orgID uuid.UUID) ([]models.ItemRow, error) {
	return s.itemRows(ctx, orgID, outstanding)
}

// DueSoon lists items whose latest review date falls within the horizon.
func (s *Service) DueSoon(ctx context.Context, orgID uuid.UUID) ([]models.ItemRow, error) {
	return s.itemRows(ctx, orgID, func(status workmodels.ItemStatus) bool {
		return status.HasReviewDue
	})
}

func (s *Service) itemRows(ctx context.Context, orgID uuid.UUID, keep func(workmodels.ItemStatus) bool) ([]models.ItemRow, error) {
	if _, err := s.orgs.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	var (
		locations []orgmodels.Location
		assets    []orgmodels.LocationAsset
		statuses  []workmodels.ItemStatus
	)
	now := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locations, err = s.orgs.ListLocations(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.orgs.ListAssetsByOrganization(gctx, orgID)
		if err != nil {
			return err
		}
		statuses, err = s.status.ListItemStatusByAssets(gctx, assetIDs(assets), now, now.Add(reviewHorizon))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assemble dashboard rows")
	}

	locationName := make(map[uuid.UUID]string, len(locations))
	for _, loc := range locations {
		locationName[loc.ID] = loc.Name
	}
	assetLocation := make(map[uuid.UUID]uuid.UUID, len(assets))
	for _, asset := range assets {
		assetLocation[asset.ID] = asset.LocationID
	}

	rows := []models.ItemRow{}
	for _, status := range statuses {
		if !keep(status) {
			continue
		}
		row := models.ItemRow{
			ItemID:        status.Item.ID,
			Statement:     status.Item.Statement,
			AreaStatement: status.AreaStatement,
			LocationName:  locationName[assetLocation[status.AssetID]],
			HasUpdates:    status.HasUpdates,
			LastUpdateAt:  status.LastUpdateAt,
		}
		if status.LastUpdateAt != nil {
			days := int(now.Sub(*status.LastUpdateAt).Hours() / 24)
			row.DaysSinceUpdate = &days
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// outstanding: never updated, or carrying an overdue review date.
func outstanding(status workmodels.ItemStatus) bool {
	return !status.HasUpdates || status.HasOverdueReview
}

func assetIDs(assets []orgmodels.LocationAsset) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}
	return ids
}

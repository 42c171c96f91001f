package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/platform/metrics"
	"github.com/chrisstorey/community-building-manager/internal/work/models"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

// Store is the persistence boundary for work areas, items, and updates.
type Store interface {
	CreateGroups(ctx context.Context, groups []template.AreaGroup) error
	ListAreasByAsset(ctx context.Context, assetID uuid.UUID) ([]models.WorkArea, error)
	FindAreaByID(ctx context.Context, areaID uuid.UUID) (*models.WorkArea, error)
	UpdateAreaRelevance(ctx context.Context, areaID uuid.UUID, isRelevant bool, now time.Time) (*models.WorkArea, error)
	ListItemsByArea(ctx context.Context, areaID uuid.UUID) ([]models.WorkItem, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.WorkItem, error)
	CreateItemUpdate(ctx context.Context, update *models.ItemUpdate) error
	ListUpdatesByItem(ctx context.Context, itemID uuid.UUID) ([]models.ItemUpdate, error)
}

// Service owns work area and item lifecycle, including template expansion
// when an asset is attached.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: m}
}

// GenerateForAsset expands the template and persists the resulting areas and
// items for the given asset instance. The caller is expected to invoke this
// inside the same transaction that creates the asset so the whole set commits
// or rolls back together, and to call it at most once per attachment; the
// expander mints fresh identities every run and does not deduplicate.
func (s *Service) GenerateForAsset(ctx context.Context, assetID uuid.UUID, templateText string) ([]template.AreaGroup, error) {
	groups, err := template.Expand(templateText, assetID, time.Now().UTC())
	if err != nil {
		var malformed *template.MalformedTemplateError
		if errors.As(err, &malformed) {
			return nil, dErrors.New(dErrors.CodeMalformedTemplate, malformed.Error())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "template expansion failed")
	}

	if err := s.store.CreateGroups(ctx, groups); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist work areas")
	}

	itemCount := 0
	for _, g := range groups {
		itemCount += len(g.Items)
	}
	s.metrics.ObserveExpansion(len(groups), itemCount)
	s.logger.InfoContext(ctx, "template expanded",
		"asset_id", assetID,
		"areas", len(groups),
		"items", itemCount,
	)
	return groups, nil
}

func (s *Service) ListAreas(ctx context.Context, assetID uuid.UUID) ([]models.WorkArea, error) {
	areas, err := s.store.ListAreasByAsset(ctx, assetID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list work areas")
	}
	return areas, nil
}

func (s *Service) GetArea(ctx context.Context, areaID uuid.UUID) (*models.WorkArea, error) {
	area, err := s.store.FindAreaByID(ctx, areaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "work area not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up work area")
	}
	return area, nil
}

func (s *Service) SetAreaRelevance(ctx context.Context, areaID uuid.UUID, isRelevant bool) (*models.WorkArea, error) {
	area, err := s.store.UpdateAreaRelevance(ctx, areaID, isRelevant, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "work area not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update work area")
	}
	return area, nil
}

func (s *Service) ListItems(ctx context.Context, areaID uuid.UUID) ([]models.WorkItem, error) {
	if _, err := s.GetArea(ctx, areaID); err != nil {
		return nil, err
	}
	items, err := s.store.ListItemsByArea(ctx, areaID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list work items")
	}
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.WorkItem, error) {
	item, err := s.store.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "work item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up work item")
	}
	return item, nil
}

// AddItemUpdate records a progress narrative against a work item.
func (s *Service) AddItemUpdate(ctx context.Context, itemID, userID uuid.UUID, narrative string, reviewDate *time.Time) (*models.ItemUpdate, error) {
	if narrative == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "narrative is required")
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	update := &models.ItemUpdate{
		ID:         uuid.New(),
		WorkItemID: itemID,
		UserID:     userID,
		Narrative:  narrative,
		ReviewDate: reviewDate,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateItemUpdate(ctx, update); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "work item not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record item update")
	}
	return update, nil
}

func (s *Service) ListItemUpdates(ctx context.Context, itemID uuid.UUID) ([]models.ItemUpdate, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	updates, err := s.store.ListUpdatesByItem(ctx, itemID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list item updates")
	}
	return updates, nil
}

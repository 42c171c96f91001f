package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/work/models"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

// InMemory keeps work areas, items, and updates in maps for tests and
// single-process development.
type InMemory struct {
	mu      sync.RWMutex
	areas   map[uuid.UUID]models.WorkArea
	items   map[uuid.UUID]models.WorkItem
	updates map[uuid.UUID][]models.ItemUpdate
}

func NewInMemory() *InMemory {
	return &InMemory{
		areas:   make(map[uuid.UUID]models.WorkArea),
		items:   make(map[uuid.UUID]models.WorkItem),
		updates: make(map[uuid.UUID][]models.ItemUpdate),
	}
}

// CreateGroups persists the output of one template expansion. The write is
// applied under one lock so readers never observe a partial expansion.
func (s *InMemory) CreateGroups(_ context.Context, groups []template.AreaGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range groups {
		s.areas[g.Area.ID] = g.Area
		for _, item := range g.Items {
			s.items[item.ID] = item
		}
	}
	return nil
}

func (s *InMemory) ListAreasByAsset(_ context.Context, assetID uuid.UUID) ([]models.WorkArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WorkArea
	for _, area := range s.areas {
		if area.AssetID == assetID {
			out = append(out, area)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *InMemory) FindAreaByID(_ context.Context, areaID uuid.UUID) (*models.WorkArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	area, ok := s.areas[areaID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &area, nil
}

func (s *InMemory) UpdateAreaRelevance(_ context.Context, areaID uuid.UUID, isRelevant bool, now time.Time) (*models.WorkArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	area, ok := s.areas[areaID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	area.IsRelevant = isRelevant
	area.UpdatedAt = now
	s.areas[areaID] = area
	return &area, nil
}

func (s *InMemory) ListItemsByArea(_ context.Context, areaID uuid.UUID) ([]models.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WorkItem
	for _, item := range s.items {
		if item.WorkAreaID == areaID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *InMemory) FindItemByID(_ context.Context, itemID uuid.UUID) (*models.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &item, nil
}

func (s *InMemory) CreateItemUpdate(_ context.Context, update *models.ItemUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[update.WorkItemID]; !ok {
		return sentinel.ErrNotFound
	}
	s.updates[update.WorkItemID] = append(s.updates[update.WorkItemID], *update)
	return nil
}

func (s *InMemory) ListUpdatesByItem(_ context.Context, itemID uuid.UUID) ([]models.ItemUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.ItemUpdate{}, s.updates[itemID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListItemStatusByAssets builds the dashboard reporting rows for the given
// asset instances. Aggregates mirror the SQL the Postgres store runs.
func (s *InMemory) ListItemStatusByAssets(_ context.Context, assetIDs []uuid.UUID, now, horizon time.Time) ([]models.ItemStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = true
	}

	var out []models.ItemStatus
	for _, item := range s.items {
		area, ok := s.areas[item.WorkAreaID]
		if !ok || !wanted[area.AssetID] {
			continue
		}

		status := models.ItemStatus{
			Item:          item,
			AreaStatement: area.Statement,
			AssetID:       area.AssetID,
		}
		for _, update := range s.updates[item.ID] {
			status.HasUpdates = true
			if status.LastUpdateAt == nil || update.CreatedAt.After(*status.LastUpdateAt) {
				created := update.CreatedAt
				status.LastUpdateAt = &created
			}
			if update.ReviewDate != nil {
				if update.ReviewDate.Before(now) {
					status.HasOverdueReview = true
				} else if !update.ReviewDate.After(horizon) {
					status.HasReviewDue = true
				}
			}
		}
		out = append(out, status)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AreaStatement != out[j].AreaStatement {
			return out[i].AreaStatement < out[j].AreaStatement
		}
		return out[i].Item.Position < out[j].Item.Position
	})
	return out, nil
}

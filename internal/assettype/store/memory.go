package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/assettype/models"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

// InMemory keeps asset types in a map for tests and single-process development.
type InMemory struct {
	mu    sync.RWMutex
	types map[uuid.UUID]models.AssetType
}

func NewInMemory() *InMemory {
	return &InMemory{types: make(map[uuid.UUID]models.AssetType)}
}

// Create inserts the asset type, enforcing case-insensitive name uniqueness.
func (s *InMemory) Create(_ context.Context, at *models.AssetType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if strings.EqualFold(existing.Name, at.Name) {
			return sentinel.ErrConflict
		}
	}
	s.types[at.ID] = *at
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.AssetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.types[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &at, nil
}

// List returns asset types ordered by name, windowed by offset/limit.
func (s *InMemory) List(_ context.Context, offset, limit int) ([]models.AssetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.AssetType, 0, len(s.types))
	for _, at := range s.types {
		all = append(all, at)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if offset >= len(all) {
		return []models.AssetType{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

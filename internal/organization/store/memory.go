package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/organization/models"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

// InMemory keeps organizations, contacts, locations, and assets in maps for
// tests and single-process development.
type InMemory struct {
	mu        sync.RWMutex
	orgs      map[uuid.UUID]models.Organization
	contacts  map[uuid.UUID]models.KeyContact
	locations map[uuid.UUID]models.Location
	assets    map[uuid.UUID]models.LocationAsset
}

func NewInMemory() *InMemory {
	return &InMemory{
		orgs:      make(map[uuid.UUID]models.Organization),
		contacts:  make(map[uuid.UUID]models.KeyContact),
		locations: make(map[uuid.UUID]models.Location),
		assets:    make(map[uuid.UUID]models.LocationAsset),
	}
}

func (s *InMemory) CreateOrganization(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[org.ID]; ok {
		return sentinel.ErrConflict
	}
	s.orgs[org.ID] = *org
	return nil
}

func (s *InMemory) FindOrganizationByID(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &org, nil
}

func (s *InMemory) UpdateOrganization(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[org.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.orgs[org.ID] = *org
	return nil
}

func (s *InMemory) ListOrganizations(_ context.Context) ([]models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Organization, 0, len(s.orgs))
	for _, org := range s.orgs {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) CreateKeyContact(_ context.Context, contact *models.KeyContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[contact.OrganizationID]; !ok {
		return sentinel.ErrNotFound
	}
	s.contacts[contact.ID] = *contact
	return nil
}

func (s *InMemory) ListKeyContactsByOrganization(_ context.Context, orgID uuid.UUID) ([]models.KeyContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.KeyContact
	for _, contact := range s.contacts {
		if contact.OrganizationID == orgID {
			out = append(out, contact)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) CreateLocation(_ context.Context, loc *models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[loc.OrganizationID]; !ok {
		return sentinel.ErrNotFound
	}
	s.locations[loc.ID] = *loc
	return nil
}

func (s *InMemory) FindLocationByID(_ context.Context, id uuid.UUID) (*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &loc, nil
}

func (s *InMemory) UpdateLocation(_ context.Context, loc *models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[loc.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.locations[loc.ID] = *loc
	return nil
}

func (s *InMemory) ListLocationsByOrganization(_ context.Context, orgID uuid.UUID) ([]models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Location
	for _, loc := range s.locations {
		if loc.OrganizationID == orgID {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) CreateAsset(_ context.Context, asset *models.LocationAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[asset.LocationID]; !ok {
		return sentinel.ErrNotFound
	}
	s.assets[asset.ID] = *asset
	return nil
}

func (s *InMemory) FindAssetByID(_ context.Context, id uuid.UUID) (*models.LocationAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &asset, nil
}

func (s *InMemory) ListAssetsByLocation(_ context.Context, locationID uuid.UUID) ([]models.LocationAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LocationAsset
	for _, asset := range s.assets {
		if asset.LocationID == locationID {
			out = append(out, asset)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListAssetsByOrganization walks locations owned by the organization and
// gathers their assets. The dashboard uses this to scope reporting.
func (s *InMemory) ListAssetsByOrganization(_ context.Context, orgID uuid.UUID) ([]models.LocationAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	locs := make(map[uuid.UUID]bool)
	for _, loc := range s.locations {
		if loc.OrganizationID == orgID {
			locs[loc.ID] = true
		}
	}
	var out []models.LocationAsset
	for _, asset := range s.assets {
		if locs[asset.LocationID] {
			out = append(out, asset)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

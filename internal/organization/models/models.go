package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// Organization is a community organization. Organizations may nest through
// ParentOrganizationID.
type Organization struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Address              string     `json:"address,omitempty"`
	ParentOrganizationID *uuid.UUID `json:"parent_organization_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func NewOrganization(name, address string, parentID *uuid.UUID, now time.Time) (*Organization, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization name is required")
	}
	return &Organization{
		ID:                   uuid.New(),
		Name:                 name,
		Address:              address,
		ParentOrganizationID: parentID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// KeyContact is a named point of contact for an organization.
type KeyContact struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Title          string    `json:"title,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewKeyContact(organizationID uuid.UUID, name, title, email, phone string, now time.Time) (*KeyContact, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "contact name is required")
	}
	return &KeyContact{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Title:          title,
		Email:          email,
		Phone:          phone,
		CreatedAt:      now,
	}, nil
}

// Location is a physical site belonging to an organization.
type Location struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewLocation(organizationID uuid.UUID, name, address string, now time.Time) (*Location, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "location name is required")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "location address is required")
	}
	return &Location{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           name,
		Address:        address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// LocationAsset is a concrete asset instance attached to a location. Creating
// one triggers template expansion into work areas and items.
type LocationAsset struct {
	ID          uuid.UUID `json:"id"`
	LocationID  uuid.UUID `json:"location_id"`
	AssetTypeID uuid.UUID `json:"asset_type_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewLocationAsset(locationID, assetTypeID uuid.UUID, now time.Time) *LocationAsset {
	return &LocationAsset{
		ID:          uuid.New(),
		LocationID:  locationID,
		AssetTypeID: assetTypeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OrganizationPatch carries partial updates; nil fields are left unchanged.
type OrganizationPatch struct {
	Name                 *string    `json:"name,omitempty"`
	Address              *string    `json:"address,omitempty"`
	ParentOrganizationID *uuid.UUID `json:"parent_organization_id,omitempty"`
}

// LocationPatch carries partial updates; nil fields are left unchanged.
type LocationPatch struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

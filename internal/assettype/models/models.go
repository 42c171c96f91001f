package models

import (
	"github.com/google/uuid"

	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// AssetType is a category of building component (e.g. "Scout HQ") with an
// associated markdown maintenance template. The template is read-only once an
// asset instance has been expanded from it; edits only affect future
// attachments.
type AssetType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Template    string    `json:"template"`
}

// NewAssetType validates required fields. An empty template is legitimate: an
// asset type may have no maintenance checklist at all.
func NewAssetType(name, description, template string) (*AssetType, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "asset type name is required")
	}
	return &AssetType{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Template:    template,
	}, nil
}

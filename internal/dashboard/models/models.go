package models

import (
	"time"

	"github.com/google/uuid"
)

// Stats summarizes an organization's maintenance position.
type Stats struct {
	OrganizationID   uuid.UUID `json:"organization_id"`
	LocationCount    int       `json:"location_count"`
	AssetCount       int       `json:"asset_count"`
	ItemCount        int       `json:"item_count"`
	OutstandingCount int       `json:"outstanding_count"`
	DueSoonCount     int       `json:"due_soon_count"`
}

// ItemRow is one dashboard line: a work item needing attention, with enough
// context to act on it without further lookups.
type ItemRow struct {
	ItemID          uuid.UUID  `json:"item_id"`
	Statement       string     `json:"statement"`
	AreaStatement   string     `json:"area_statement"`
	LocationName    string     `json:"location_name"`
	HasUpdates      bool       `json:"has_updates"`
	LastUpdateAt    *time.Time `json:"last_update_at,omitempty"`
	DaysSinceUpdate *int       `json:"days_since_update,omitempty"`
}

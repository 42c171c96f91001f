package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkArea groups related maintenance checklist items for one asset instance.
//
// Invariants:
//   - AssetID always references the owning asset instance
//   - Position reflects source order in the template and never changes
//   - IsRelevant starts true; users may toggle it later
type WorkArea struct {
	ID         uuid.UUID `json:"id"`
	AssetID    uuid.UUID `json:"asset_id"`
	Statement  string    `json:"statement"`
	IsRelevant bool      `json:"is_relevant"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WorkItem is a single maintenance checklist entry within a work area.
type WorkItem struct {
	ID          uuid.UUID  `json:"id"`
	WorkAreaID  uuid.UUID  `json:"work_area_id"`
	Statement   string     `json:"statement"`
	Description string     `json:"description,omitempty"`
	ReviewDate  *time.Time `json:"review_date,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ItemStatus is a reporting row: one work item with the aggregates the
// dashboard needs. Stores compute the aggregates so SQL can do the joins.
type ItemStatus struct {
	Item             WorkItem
	AreaStatement    string
	AssetID          uuid.UUID
	HasUpdates       bool
	HasOverdueReview bool
	HasReviewDue     bool
	LastUpdateAt     *time.Time
}

// ItemUpdate is a progress narrative recorded against a work item.
type ItemUpdate struct {
	ID         uuid.UUID  `json:"id"`
	WorkItemID uuid.UUID  `json:"work_item_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Narrative  string     `json:"narrative"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

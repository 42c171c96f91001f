package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/chrisstorey/community-building-manager/internal/work/models"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

type WorkStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *WorkStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Now().UTC()
}

func TestWorkStoreSuite(t *testing.T) {
	suite.Run(t, new(WorkStoreSuite))
}

func (s *WorkStoreSuite) seedAsset(assetID uuid.UUID, areas ...string) []template.AreaGroup {
	groups := make([]template.AreaGroup, 0, len(areas))
	for i, statement := range areas {
		area := models.WorkArea{
			ID:         uuid.New(),
			AssetID:    assetID,
			Statement:  statement,
			IsRelevant: true,
			Position:   i + 1,
			CreatedAt:  s.now,
			UpdatedAt:  s.now,
		}
		items := []models.WorkItem{
			{
				ID:         uuid.New(),
				WorkAreaID: area.ID,
				Statement:  statement + " item",
				Position:   1,
				CreatedAt:  s.now,
				UpdatedAt:  s.now,
			},
		}
		groups = append(groups, template.AreaGroup{Area: area, Items: items})
	}
	s.Require().NoError(s.store.CreateGroups(s.ctx, groups))
	return groups
}

func (s *WorkStoreSuite) TestCreateAndListAreas() {
	assetID := uuid.New()
	s.seedAsset(assetID, "Roof", "HVAC", "Grounds")

	s.Run("lists areas in position order", func() {
		areas, err := s.store.ListAreasByAsset(s.ctx, assetID)
		s.Require().NoError(err)
		s.Require().Len(areas, 3)
		s.Equal("Roof", areas[0].Statement)
		s.Equal("HVAC", areas[1].Statement)
		s.Equal("Grounds", areas[2].Statement)
	})

	s.Run("returns nothing for unknown asset", func() {
		areas, err := s.store.ListAreasByAsset(s.ctx, uuid.New())
		s.Require().NoError(err)
		s.Empty(areas)
	})
}

func (s *WorkStoreSuite) TestAreaRelevance() {
	assetID := uuid.New()
	groups := s.seedAsset(assetID, "Roof")
	areaID := groups[0].Area.ID

	s.Run("toggles relevance and bumps updated_at", func() {
		later := s.now.Add(time.Minute)
		area, err := s.store.UpdateAreaRelevance(s.ctx, areaID, false, later)
		s.Require().NoError(err)
		s.False(area.IsRelevant)
		s.Equal(later, area.UpdatedAt)

		found, err := s.store.FindAreaByID(s.ctx, areaID)
		s.Require().NoError(err)
		s.False(found.IsRelevant)
	})

	s.Run("returns ErrNotFound for unknown area", func() {
		_, err := s.store.UpdateAreaRelevance(s.ctx, uuid.New(), false, s.now)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *WorkStoreSuite) TestItemUpdates() {
	assetID := uuid.New()
	groups := s.seedAsset(assetID, "Roof")
	itemID := groups[0].Items[0].ID

	s.Run("records and lists updates in creation order", func() {
		first := &models.ItemUpdate{
			ID: uuid.New(), WorkItemID: itemID, UserID: uuid.New(),
			Narrative: "first pass", CreatedAt: s.now,
		}
		second := &models.ItemUpdate{
			ID: uuid.New(), WorkItemID: itemID, UserID: uuid.New(),
			Narrative: "second pass", CreatedAt: s.now.Add(time.Hour),
		}
		s.Require().NoError(s.store.CreateItemUpdate(s.ctx, second))
		s.Require().NoError(s.store.CreateItemUpdate(s.ctx, first))

		updates, err := s.store.ListUpdatesByItem(s.ctx, itemID)
		s.Require().NoError(err)
		s.Require().Len(updates, 2)
		s.Equal("first pass", updates[0].Narrative)
		s.Equal("second pass", updates[1].Narrative)
	})

	s.Run("rejects update for unknown item", func() {
		update := &models.ItemUpdate{
			ID: uuid.New(), WorkItemID: uuid.New(), UserID: uuid.New(),
			Narrative: "orphan", CreatedAt: s.now,
		}
		s.Require().ErrorIs(s.store.CreateItemUpdate(s.ctx, update), sentinel.ErrNotFound)
	})
}

func (s *WorkStoreSuite) TestListItemStatusByAssets() {
	assetID := uuid.New()
	groups := s.seedAsset(assetID, "HVAC", "Roof")
	hvacItem := groups[0].Items[0].ID
	roofItem := groups[1].Items[0].ID

	overdue := s.now.Add(-48 * time.Hour)
	dueSoon := s.now.Add(7 * 24 * time.Hour)
	horizon := s.now.Add(30 * 24 * time.Hour)

	s.Require().NoError(s.store.CreateItemUpdate(s.ctx, &models.ItemUpdate{
		ID: uuid.New(), WorkItemID: hvacItem, UserID: uuid.New(),
		Narrative: "filter changed", ReviewDate: &overdue, CreatedAt: s.now.Add(-time.Hour),
	}))
	s.Require().NoError(s.store.CreateItemUpdate(s.ctx, &models.ItemUpdate{
		ID: uuid.New(), WorkItemID: hvacItem, UserID: uuid.New(),
		Narrative: "booked re-check", ReviewDate: &dueSoon, CreatedAt: s.now,
	}))

	statuses, err := s.store.ListItemStatusByAssets(s.ctx, []uuid.UUID{assetID}, s.now, horizon)
	s.Require().NoError(err)
	s.Require().Len(statuses, 2)

	s.Run("orders by area statement then position", func() {
		s.Equal("HVAC", statuses[0].AreaStatement)
		s.Equal("Roof", statuses[1].AreaStatement)
	})

	s.Run("aggregates update flags", func() {
		hvac := statuses[0]
		s.Equal(hvacItem, hvac.Item.ID)
		s.True(hvac.HasUpdates)
		s.True(hvac.HasOverdueReview)
		s.True(hvac.HasReviewDue)
		s.Require().NotNil(hvac.LastUpdateAt)
		s.Equal(s.now, *hvac.LastUpdateAt)
	})

	s.Run("item with no updates carries zero flags", func() {
		roof := statuses[1]
		s.Equal(roofItem, roof.Item.ID)
		s.False(roof.HasUpdates)
		s.False(roof.HasOverdueReview)
		s.False(roof.HasReviewDue)
		s.Nil(roof.LastUpdateAt)
	})

	s.Run("empty asset list yields no rows", func() {
		statuses, err := s.store.ListItemStatusByAssets(s.ctx, nil, s.now, horizon)
		s.Require().NoError(err)
		s.Empty(statuses)
	})
}

//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	assettypemodels "github.com/chrisstorey/community-building-manager/internal/assettype/models"
	assettypestore "github.com/chrisstorey/community-building-manager/internal/assettype/store"
	orgmodels "github.com/chrisstorey/community-building-manager/internal/organization/models"
	orgstore "github.com/chrisstorey/community-building-manager/internal/organization/store"
	"github.com/chrisstorey/community-building-manager/internal/work/models"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
	"github.com/chrisstorey/community-building-manager/pkg/testutil/containers"
)

type WorkStorePostgresSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	store   *Postgres
	runner  *txcontext.SQLRunner
	ctx     context.Context
	assetID uuid.UUID
	userID  uuid.UUID
}

func TestWorkStorePostgresSuite(t *testing.T) {
	suite.Run(t, new(WorkStorePostgresSuite))
}

func (s *WorkStorePostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.runner = txcontext.NewSQLRunner(s.pg.DB)
	s.ctx = context.Background()
	s.seedAsset()
}

// seedAsset satisfies the FK chain: organization, location, asset type, asset
// instance, and one user for item updates.
func (s *WorkStorePostgresSuite) seedAsset() {
	now := time.Now().UTC()
	orgs := orgstore.NewPostgres(s.pg.DB)
	types := assettypestore.NewPostgres(s.pg.DB)

	org, err := orgmodels.NewOrganization("Community Trust", "1 Main St", nil, now)
	s.Require().NoError(err)
	s.Require().NoError(orgs.CreateOrganization(s.ctx, org))

	loc, err := orgmodels.NewLocation(org.ID, "Main Hall", "2 Side St", now)
	s.Require().NoError(err)
	s.Require().NoError(orgs.CreateLocation(s.ctx, loc))

	at, err := assettypemodels.NewAssetType("Boiler", "", "## Area: Boiler Room\n- Check pressure\n")
	s.Require().NoError(err)
	s.Require().NoError(types.Create(s.ctx, at))

	asset := orgmodels.NewLocationAsset(loc.ID, at.ID, now)
	s.Require().NoError(orgs.CreateAsset(s.ctx, asset))
	s.assetID = asset.ID

	s.userID = uuid.New()
	_, err = s.pg.DB.ExecContext(s.ctx, `
		INSERT INTO users (id, email, password_hash, role, organization_id, created_at, updated_at)
		VALUES ($1, $2, 'x', 'manager', $3, $4, $4)
	`, s.userID, uuid.NewString()+"@example.org", org.ID, now)
	s.Require().NoError(err)
}

func (s *WorkStorePostgresSuite) TestExpansionRoundTrip() {
	now := time.Now().UTC()
	groups, err := template.Expand("## Area: Roof\n- Check gutters\n- Inspect tiles\n", s.assetID, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateGroups(s.ctx, groups))

	areas, err := s.store.ListAreasByAsset(s.ctx, s.assetID)
	s.Require().NoError(err)
	s.Require().NotEmpty(areas)

	var roof *models.WorkArea
	for i := range areas {
		if areas[i].Statement == "Roof" {
			roof = &areas[i]
		}
	}
	s.Require().NotNil(roof)
	s.True(roof.IsRelevant)

	items, err := s.store.ListItemsByArea(s.ctx, roof.ID)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("Check gutters", items[0].Statement)
	s.Equal(1, items[0].Position)
}

func (s *WorkStorePostgresSuite) TestTransactionRollback() {
	now := time.Now().UTC()
	groups, err := template.Expand("## Area: Rollback\n- Never persisted\n", s.assetID, now)
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = s.runner.RunInTx(s.ctx, func(ctx context.Context) error {
		if err := s.store.CreateGroups(ctx, groups); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	_, err = s.store.FindAreaByID(s.ctx, groups[0].Area.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *WorkStorePostgresSuite) TestRelevanceAndStatus() {
	now := time.Now().UTC()
	groups, err := template.Expand("## Area: Kitchen\n- Descale urn\n", s.assetID, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateGroups(s.ctx, groups))

	areaID := groups[0].Area.ID
	itemID := groups[0].Items[0].ID

	area, err := s.store.UpdateAreaRelevance(s.ctx, areaID, false, now.Add(time.Minute))
	s.Require().NoError(err)
	s.False(area.IsRelevant)

	overdue := now.Add(-24 * time.Hour)
	s.Require().NoError(s.store.CreateItemUpdate(s.ctx, &models.ItemUpdate{
		ID: uuid.New(), WorkItemID: itemID, UserID: s.userID,
		Narrative: "needs another look", ReviewDate: &overdue, CreatedAt: now,
	}))

	statuses, err := s.store.ListItemStatusByAssets(s.ctx, []uuid.UUID{s.assetID}, now, now.Add(30*24*time.Hour))
	s.Require().NoError(err)

	var kitchen *models.ItemStatus
	for i := range statuses {
		if statuses[i].Item.ID == itemID {
			kitchen = &statuses[i]
		}
	}
	s.Require().NotNil(kitchen)
	s.True(kitchen.HasUpdates)
	s.True(kitchen.HasOverdueReview)
	s.False(kitchen.HasReviewDue)
	s.Require().NotNil(kitchen.LastUpdateAt)
}

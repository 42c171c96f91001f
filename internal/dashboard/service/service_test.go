package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	assettypeservice "github.com/chrisstorey/community-building-manager/internal/assettype/service"
	assettypestore "github.com/chrisstorey/community-building-manager/internal/assettype/store"
	orgservice "github.com/chrisstorey/community-building-manager/internal/organization/service"
	orgstore "github.com/chrisstorey/community-building-manager/internal/organization/store"
	workservice "github.com/chrisstorey/community-building-manager/internal/work/service"
	workstore "github.com/chrisstorey/community-building-manager/internal/work/store"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

type fixture struct {
	dashboard *Service
	orgs      *orgservice.Service
	work      *workservice.Service
	workStore *workstore.InMemory
	orgID     uuid.UUID
	assetID   uuid.UUID
	itemIDs   []uuid.UUID
}

// newFixture seeds one organization with one location and one attached asset
// whose template yields two items under one area.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	orgStore := orgstore.NewInMemory()
	workStore := workstore.NewInMemory()
	types := assettypeservice.New(assettypestore.NewInMemory())
	work := workservice.New(workStore, logger, nil)
	orgs := orgservice.New(orgStore, types, work, txcontext.PassthroughRunner{}, logger, nil)

	org, err := orgs.CreateOrganization(ctx, "Community Trust", "", nil)
	require.NoError(t, err)
	loc, err := orgs.AddLocation(ctx, org.ID, "Main Hall", "1 Main St")
	require.NoError(t, err)
	at, err := types.Create(ctx, "Boiler", "", "## Area: Boiler Room\n- Check pressure\n- Bleed radiators\n")
	require.NoError(t, err)
	asset, err := orgs.AttachAsset(ctx, loc.ID, at.ID)
	require.NoError(t, err)

	areas, err := workStore.ListAreasByAsset(ctx, asset.ID)
	require.NoError(t, err)
	items, err := workStore.ListItemsByArea(ctx, areas[0].ID)
	require.NoError(t, err)
	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	return &fixture{
		dashboard: New(orgs, workStore, logger),
		orgs:      orgs,
		work:      work,
		workStore: workStore,
		orgID:     org.ID,
		assetID:   asset.ID,
		itemIDs:   itemIDs,
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("counts everything outstanding before any updates", func(t *testing.T) {
		stats, err := f.dashboard.Stats(ctx, f.orgID)
		require.NoError(t, err)
		require.Equal(t, 1, stats.LocationCount)
		require.Equal(t, 1, stats.AssetCount)
		require.Equal(t, 2, stats.ItemCount)
		require.Equal(t, 2, stats.OutstandingCount)
		require.Equal(t, 0, stats.DueSoonCount)
	})

	t.Run("an update clears the item from outstanding", func(t *testing.T) {
		_, err := f.work.AddItemUpdate(ctx, f.itemIDs[0], uuid.New(), "pressure fine", nil)
		require.NoError(t, err)

		stats, err := f.dashboard.Stats(ctx, f.orgID)
		require.NoError(t, err)
		require.Equal(t, 1, stats.OutstandingCount)
	})

	t.Run("unknown organization yields not found", func(t *testing.T) {
		_, err := f.dashboard.Stats(ctx, uuid.New())
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestOutstanding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	overdue := time.Now().UTC().Add(-24 * time.Hour)
	_, err := f.work.AddItemUpdate(ctx, f.itemIDs[0], uuid.New(), "needs re-check", &overdue)
	require.NoError(t, err)

	rows, err := f.dashboard.Outstanding(ctx, f.orgID)
	require.NoError(t, err)
	// item 0 is outstanding via overdue review, item 1 via never-updated
	require.Len(t, rows, 2)

	for _, row := range rows {
		require.Equal(t, "Boiler Room", row.AreaStatement)
		require.Equal(t, "Main Hall", row.LocationName)
	}

	for _, row := range rows {
		if row.ItemID == f.itemIDs[0] {
			require.True(t, row.HasUpdates)
			require.NotNil(t, row.DaysSinceUpdate)
			require.Equal(t, 0, *row.DaysSinceUpdate)
		} else {
			require.False(t, row.HasUpdates)
			require.Nil(t, row.LastUpdateAt)
		}
	}
}

func TestDueSoon(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("empty before any review dates", func(t *testing.T) {
		rows, err := f.dashboard.DueSoon(ctx, f.orgID)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("review inside the horizon shows up", func(t *testing.T) {
		soon := time.Now().UTC().Add(7 * 24 * time.Hour)
		_, err := f.work.AddItemUpdate(ctx, f.itemIDs[0], uuid.New(), "booked service", &soon)
		require.NoError(t, err)

		rows, err := f.dashboard.DueSoon(ctx, f.orgID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, f.itemIDs[0], rows[0].ItemID)
	})

	t.Run("review beyond the horizon does not", func(t *testing.T) {
		far := time.Now().UTC().Add(90 * 24 * time.Hour)
		_, err := f.work.AddItemUpdate(ctx, f.itemIDs[1], uuid.New(), "long-range plan", &far)
		require.NoError(t, err)

		rows, err := f.dashboard.DueSoon(ctx, f.orgID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}

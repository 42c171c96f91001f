package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	assettypeservice "github.com/chrisstorey/community-building-manager/internal/assettype/service"
	assettypestore "github.com/chrisstorey/community-building-manager/internal/assettype/store"
	"github.com/chrisstorey/community-building-manager/internal/organization/models"
	"github.com/chrisstorey/community-building-manager/internal/organization/store"
	workservice "github.com/chrisstorey/community-building-manager/internal/work/service"
	workstore "github.com/chrisstorey/community-building-manager/internal/work/store"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

type fixture struct {
	svc       *Service
	workStore *workstore.InMemory
	types     *assettypeservice.Service
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orgStore := store.NewInMemory()
	workStore := workstore.NewInMemory()
	types := assettypeservice.New(assettypestore.NewInMemory())
	work := workservice.New(workStore, logger, nil)
	svc := New(orgStore, types, work, txcontext.PassthroughRunner{}, logger, nil)
	return &fixture{svc: svc, workStore: workStore, types: types}
}

func (f *fixture) seedLocation(t *testing.T) *models.Location {
	t.Helper()
	ctx := context.Background()
	org, err := f.svc.CreateOrganization(ctx, "Community Trust", "1 Main St", nil)
	require.NoError(t, err)
	loc, err := f.svc.AddLocation(ctx, org.ID, "Main Hall", "2 Side St")
	require.NoError(t, err)
	return loc
}

func TestCreateOrganization(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	t.Run("requires a name", func(t *testing.T) {
		_, err := f.svc.CreateOrganization(ctx, "", "", nil)
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects unknown parent", func(t *testing.T) {
		parent := uuid.New()
		_, err := f.svc.CreateOrganization(ctx, "Child", "", &parent)
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("nests under an existing parent", func(t *testing.T) {
		parent, err := f.svc.CreateOrganization(ctx, "Parent Trust", "", nil)
		require.NoError(t, err)
		child, err := f.svc.CreateOrganization(ctx, "Child Hall", "", &parent.ID)
		require.NoError(t, err)
		require.Equal(t, parent.ID, *child.ParentOrganizationID)
	})
}

func TestPatchOrganization(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	org, err := f.svc.CreateOrganization(ctx, "Before", "old address", nil)
	require.NoError(t, err)

	t.Run("applies only provided fields", func(t *testing.T) {
		name := "After"
		patched, err := f.svc.PatchOrganization(ctx, org.ID, models.OrganizationPatch{Name: &name})
		require.NoError(t, err)
		require.Equal(t, "After", patched.Name)
		require.Equal(t, "old address", patched.Address)
	})

	t.Run("rejects self-parenting", func(t *testing.T) {
		_, err := f.svc.PatchOrganization(ctx, org.ID, models.OrganizationPatch{ParentOrganizationID: &org.ID})
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("unknown organization yields not found", func(t *testing.T) {
		name := "x"
		_, err := f.svc.PatchOrganization(ctx, uuid.New(), models.OrganizationPatch{Name: &name})
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAttachAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("expands the template into work areas and items", func(t *testing.T) {
		f := newFixture()
		loc := f.seedLocation(t)
		at, err := f.types.Create(ctx, "Boiler", "", "## Area: Boiler Room\n- Check pressure\n- Bleed radiators\n")
		require.NoError(t, err)

		asset, err := f.svc.AttachAsset(ctx, loc.ID, at.ID)
		require.NoError(t, err)

		areas, err := f.workStore.ListAreasByAsset(ctx, asset.ID)
		require.NoError(t, err)
		require.Len(t, areas, 1)
		require.Equal(t, "Boiler Room", areas[0].Statement)
		require.True(t, areas[0].IsRelevant)

		items, err := f.workStore.ListItemsByArea(ctx, areas[0].ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
	})

	t.Run("empty template attaches with no work", func(t *testing.T) {
		f := newFixture()
		loc := f.seedLocation(t)
		at, err := f.types.Create(ctx, "Noticeboard", "", "")
		require.NoError(t, err)

		asset, err := f.svc.AttachAsset(ctx, loc.ID, at.ID)
		require.NoError(t, err)

		areas, err := f.workStore.ListAreasByAsset(ctx, asset.ID)
		require.NoError(t, err)
		require.Empty(t, areas)
	})

	t.Run("each attachment gets fresh work rows", func(t *testing.T) {
		f := newFixture()
		loc := f.seedLocation(t)
		at, err := f.types.Create(ctx, "Door", "", "## Area: Entrance\n- Oil hinges\n")
		require.NoError(t, err)

		first, err := f.svc.AttachAsset(ctx, loc.ID, at.ID)
		require.NoError(t, err)
		second, err := f.svc.AttachAsset(ctx, loc.ID, at.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.ID, second.ID)

		firstAreas, err := f.workStore.ListAreasByAsset(ctx, first.ID)
		require.NoError(t, err)
		secondAreas, err := f.workStore.ListAreasByAsset(ctx, second.ID)
		require.NoError(t, err)
		require.Len(t, firstAreas, 1)
		require.Len(t, secondAreas, 1)
		require.NotEqual(t, firstAreas[0].ID, secondAreas[0].ID)
	})

	t.Run("unknown location yields not found", func(t *testing.T) {
		f := newFixture()
		at, err := f.types.Create(ctx, "Boiler", "", "")
		require.NoError(t, err)
		_, err = f.svc.AttachAsset(ctx, uuid.New(), at.ID)
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("unknown asset type yields not found", func(t *testing.T) {
		f := newFixture()
		loc := f.seedLocation(t)
		_, err := f.svc.AttachAsset(ctx, loc.ID, uuid.New())
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestLocations(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	loc := f.seedLocation(t)

	t.Run("patches name and address", func(t *testing.T) {
		name := "Refurbished Hall"
		patched, err := f.svc.PatchLocation(ctx, loc.ID, models.LocationPatch{Name: &name})
		require.NoError(t, err)
		require.Equal(t, "Refurbished Hall", patched.Name)
		require.Equal(t, loc.Address, patched.Address)
	})

	t.Run("rejects empty address", func(t *testing.T) {
		empty := ""
		_, err := f.svc.PatchLocation(ctx, loc.ID, models.LocationPatch{Address: &empty})
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("lists locations for the organization", func(t *testing.T) {
		locs, err := f.svc.ListLocations(ctx, loc.OrganizationID)
		require.NoError(t, err)
		require.Len(t, locs, 1)
	})
}

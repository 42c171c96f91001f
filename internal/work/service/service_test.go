package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chrisstorey/community-building-manager/internal/work/store"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

func newTestService() (*Service, *store.InMemory) {
	st := store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, logger, nil), st
}

func TestGenerateForAsset(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	assetID := uuid.New()

	text := "## Area: Roof\n- Check gutters\n- Inspect tiles\n## Area: HVAC\n- Replace filters\n"
	groups, err := svc.GenerateForAsset(ctx, assetID, text)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	areas, err := st.ListAreasByAsset(ctx, assetID)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	require.Equal(t, "Roof", areas[0].Statement)

	items, err := st.ListItemsByArea(ctx, areas[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Check gutters", items[0].Statement)
}

func TestGenerateForAsset_MalformedTemplate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	assetID := uuid.New()

	_, err := svc.GenerateForAsset(ctx, assetID, "- orphan item before any area\n")
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeMalformedTemplate))

	// nothing persisted
	areas, err := st.ListAreasByAsset(ctx, assetID)
	require.NoError(t, err)
	require.Empty(t, areas)
}

func TestGenerateForAsset_EmptyTemplate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService()
	assetID := uuid.New()

	groups, err := svc.GenerateForAsset(ctx, assetID, "")
	require.NoError(t, err)
	require.Empty(t, groups)

	areas, err := st.ListAreasByAsset(ctx, assetID)
	require.NoError(t, err)
	require.Empty(t, areas)
}

func TestSetAreaRelevance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	assetID := uuid.New()

	groups, err := svc.GenerateForAsset(ctx, assetID, "## Area: Roof\n- Check gutters\n")
	require.NoError(t, err)

	area, err := svc.SetAreaRelevance(ctx, groups[0].Area.ID, false)
	require.NoError(t, err)
	require.False(t, area.IsRelevant)

	_, err = svc.SetAreaRelevance(ctx, uuid.New(), false)
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestAddItemUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	assetID := uuid.New()

	groups, err := svc.GenerateForAsset(ctx, assetID, "## Area: Roof\n- Check gutters\n")
	require.NoError(t, err)
	itemID := groups[0].Items[0].ID
	userID := uuid.New()

	t.Run("records narrative with review date", func(t *testing.T) {
		review := time.Now().UTC().Add(14 * 24 * time.Hour)
		update, err := svc.AddItemUpdate(ctx, itemID, userID, "cleared leaves", &review)
		require.NoError(t, err)
		require.Equal(t, "cleared leaves", update.Narrative)
		require.NotNil(t, update.ReviewDate)

		updates, err := svc.ListItemUpdates(ctx, itemID)
		require.NoError(t, err)
		require.Len(t, updates, 1)
	})

	t.Run("rejects empty narrative", func(t *testing.T) {
		_, err := svc.AddItemUpdate(ctx, itemID, userID, "", nil)
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects unknown item", func(t *testing.T) {
		_, err := svc.AddItemUpdate(ctx, uuid.New(), userID, "note", nil)
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestListItems_UnknownArea(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.ListItems(ctx, uuid.New())
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

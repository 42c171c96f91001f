package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/chrisstorey/community-building-manager/internal/assettype/models"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

type AssetTypeStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AssetTypeStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAssetTypeStoreSuite(t *testing.T) {
	suite.Run(t, new(AssetTypeStoreSuite))
}

func (s *AssetTypeStoreSuite) newAssetType(name string) *models.AssetType {
	at, err := models.NewAssetType(name, "", "## Area: General\n- Inspect\n")
	s.Require().NoError(err)
	return at
}

func (s *AssetTypeStoreSuite) TestCreationAndLookup() {
	s.Run("creates and finds by ID", func() {
		at := s.newAssetType("Boiler")
		s.Require().NoError(s.store.Create(s.ctx, at))

		found, err := s.store.FindByID(s.ctx, at.ID)
		s.Require().NoError(err)
		s.Equal("Boiler", found.Name)
		s.Equal(at.Template, found.Template)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *AssetTypeStoreSuite) TestNameUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newAssetType("Boiler")))

	s.Run("rejects duplicate name", func() {
		err := s.store.Create(s.ctx, s.newAssetType("Boiler"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("enforces case-insensitive uniqueness", func() {
		err := s.store.Create(s.ctx, s.newAssetType("BOILER"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *AssetTypeStoreSuite) TestListWindowing() {
	for _, name := range []string{"Roof", "Boiler", "Kitchen", "Grounds"} {
		s.Require().NoError(s.store.Create(s.ctx, s.newAssetType(name)))
	}

	s.Run("lists sorted by name", func() {
		types, err := s.store.List(s.ctx, 0, 10)
		s.Require().NoError(err)
		s.Require().Len(types, 4)
		s.Equal("Boiler", types[0].Name)
		s.Equal("Roof", types[3].Name)
	})

	s.Run("applies offset and limit", func() {
		types, err := s.store.List(s.ctx, 1, 2)
		s.Require().NoError(err)
		s.Require().Len(types, 2)
		s.Equal("Grounds", types[0].Name)
		s.Equal("Kitchen", types[1].Name)
	})

	s.Run("offset past the end is empty", func() {
		types, err := s.store.List(s.ctx, 10, 5)
		s.Require().NoError(err)
		s.Empty(types)
	})
}

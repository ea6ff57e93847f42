package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/geo"
	"github.com/rethread/backend/internal/domain/listing"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/rethread/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupListingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ListingModel{})
	require.NoError(t, err)

	return db
}

func newTestListing(t *testing.T, ownerID uuid.UUID, title string, point geo.Point) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(ownerID, "Maker", listing.PostTypeOffer, listing.ListingTypeFree,
		listing.CategoryFabric, title, "some scraps", point, "Somewhere")
	require.NoError(t, err)
	return l
}

func TestGormListingRepository_CreateAndFind(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	l := newTestListing(t, ownerID, "Denim offcuts", geo.Point{Latitude: 52.52, Longitude: 13.405})
	require.NoError(t, l.SetImages([]string{"https://cdn.example.com/a.jpg"}))

	require.NoError(t, repo.Create(ctx, l))

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, found.ID)
	assert.Equal(t, "Denim offcuts", found.Title)
	assert.Equal(t, listing.PostTypeOffer, found.PostType)
	assert.Equal(t, ownerID, found.OwnerID)
	assert.InDelta(t, 52.52, found.Location.Latitude, 1e-9)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, found.ImageURLs)
}

func TestGormListingRepository_FindByID_NotFound(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormListingRepository_Update(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	l := newTestListing(t, uuid.New(), "Denim offcuts", geo.Point{Latitude: 52.52, Longitude: 13.405})
	require.NoError(t, repo.Create(ctx, l))

	require.NoError(t, l.Close())
	require.NoError(t, repo.Update(ctx, l))

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.ListingStatusClosed, found.Status)
}

func TestGormListingRepository_FindAll(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	berlin := geo.Point{Latitude: 52.52, Longitude: 13.405}

	offer := newTestListing(t, ownerID, "Denim offcuts", berlin)
	require.NoError(t, repo.Create(ctx, offer))

	request, err := listing.NewListing(uuid.New(), "Other", listing.PostTypeRequest, "",
		listing.CategoryYarn, "Looking for yarn", "", berlin, "Berlin")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, request))

	t.Run("no filter returns everything", func(t *testing.T) {
		all, total, err := repo.FindAll(ctx, listing.NewFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)
	})

	t.Run("filters by post type", func(t *testing.T) {
		offers, total, err := repo.FindAll(ctx, listing.NewFilter().WithPostType(listing.PostTypeOffer))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, offers, 1)
		assert.Equal(t, offer.ID, offers[0].ID)
	})

	t.Run("filters by category", func(t *testing.T) {
		yarn, total, err := repo.FindAll(ctx, listing.NewFilter().WithCategory(listing.CategoryYarn))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, yarn, 1)
		assert.Equal(t, request.ID, yarn[0].ID)
	})

	t.Run("filters by owner", func(t *testing.T) {
		mine, total, err := repo.FindAll(ctx, listing.NewFilter().WithOwner(ownerID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, mine, 1)
	})

	t.Run("listing type filter keeps requests", func(t *testing.T) {
		free, total, err := repo.FindAll(ctx, listing.NewFilter().WithListingType(listing.ListingTypeFree))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, free, 2)

		swap, total, err := repo.FindAll(ctx, listing.NewFilter().WithListingType(listing.ListingTypeSwap))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, swap, 1)
		assert.Equal(t, request.ID, swap[0].ID)
	})

	t.Run("keyword searches title", func(t *testing.T) {
		hits, total, err := repo.FindAll(ctx, listing.NewFilter().WithKeyword("Denim"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, hits, 1)
		assert.Equal(t, offer.ID, hits[0].ID)
	})
}

func TestGormListingRepository_FindWithinBox(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	berlin := geo.Point{Latitude: 52.52, Longitude: 13.405}
	potsdam := geo.Point{Latitude: 52.3906, Longitude: 13.0645} // ~26 km from Berlin
	munich := geo.Point{Latitude: 48.1351, Longitude: 11.582}   // ~500 km away

	inBerlin := newTestListing(t, uuid.New(), "Berlin scraps", berlin)
	inPotsdam := newTestListing(t, uuid.New(), "Potsdam scraps", potsdam)
	inMunich := newTestListing(t, uuid.New(), "Munich scraps", munich)
	closed := newTestListing(t, uuid.New(), "Closed scraps", berlin)
	require.NoError(t, closed.Close())

	for _, l := range []*listing.Listing{inBerlin, inPotsdam, inMunich, closed} {
		require.NoError(t, repo.Create(ctx, l))
	}

	minLat, maxLat, minLng, maxLng := listing.SearchBox(berlin, 50)
	hits, err := repo.FindWithinBox(ctx, minLat, maxLat, minLng, maxLng, listing.NewFilter())
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	assert.Contains(t, ids, inBerlin.ID)
	assert.Contains(t, ids, inPotsdam.ID)
	assert.NotContains(t, ids, inMunich.ID)
	assert.NotContains(t, ids, closed.ID, "closed listings are invisible to search")
}

func TestGormListingRepository_FindByOwner(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewGormListingRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	berlin := geo.Point{Latitude: 52.52, Longitude: 13.405}

	require.NoError(t, repo.Create(ctx, newTestListing(t, ownerID, "First", berlin)))
	require.NoError(t, repo.Create(ctx, newTestListing(t, ownerID, "Second", berlin)))
	require.NoError(t, repo.Create(ctx, newTestListing(t, uuid.New(), "Not mine", berlin)))

	mine, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

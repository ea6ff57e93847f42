package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	applisting "github.com/rethread/backend/internal/application/listing"
	"github.com/rethread/backend/internal/domain/geo"
	domainlisting "github.com/rethread/backend/internal/domain/listing"
	"github.com/rethread/backend/internal/infrastructure/auth"
	"github.com/rethread/backend/internal/infrastructure/config"
	"github.com/rethread/backend/internal/infrastructure/geocoding"
	"github.com/rethread/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockListingRepository mocks domainlisting.ListingRepository
type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) Create(ctx context.Context, l *domainlisting.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockListingRepository) Update(ctx context.Context, l *domainlisting.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainlisting.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainlisting.Listing), args.Error(1)
}

func (m *mockListingRepository) FindAll(ctx context.Context, filter domainlisting.Filter) ([]*domainlisting.Listing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domainlisting.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockListingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domainlisting.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainlisting.Listing), args.Error(1)
}

func (m *mockListingRepository) FindWithinBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64, filter domainlisting.Filter) ([]*domainlisting.Listing, error) {
	args := m.Called(ctx, minLat, maxLat, minLng, maxLng, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainlisting.Listing), args.Error(1)
}

func (m *mockListingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func mustTestPoint(t *testing.T, lat, lng float64) geo.Point {
	t.Helper()
	p, err := geo.NewPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func newListingTestRouter(t *testing.T) (*gin.Engine, *mockListingRepository, string, uuid.UUID) {
	t.Helper()
	middleware.SetupValidator()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test",
	})

	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      userID,
		Email:       "maker@example.com",
		DisplayName: "Maker",
	})
	require.NoError(t, err)

	repo := new(mockListingRepository)
	service := applisting.NewListingService(repo, geocoding.NewStaticGeocoder(), zap.NewNop())
	h := NewListingHandler(service)

	requireAuth := middleware.JWTAuthMiddleware(jwtService)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.GET("/listings", h.Browse)
	v1.GET("/listings/nearby", h.SearchNearby)
	v1.POST("/listings", requireAuth, h.Create)
	v1.POST("/listings/:id/close", requireAuth, h.Close)

	return engine, repo, pair.AccessToken, userID
}

func TestListingHandler_Create(t *testing.T) {
	engine, repo, token, userID := newListingTestRouter(t)

	t.Run("with coordinates", func(t *testing.T) {
		repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil).Once()

		lat, lng := 52.52, 13.405
		body, _ := json.Marshal(CreateListingRequest{
			PostType:  "offer",
			Category:  "fabric",
			Title:     "Denim offcuts, about 2kg",
			Latitude:  &lat,
			Longitude: &lng,
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Denim offcuts")
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("geocodes a known city name", func(t *testing.T) {
		repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil).Once()

		body, _ := json.Marshal(CreateListingRequest{
			PostType:     "request",
			Category:     "yarn",
			Title:        "Looking for wool remnants",
			LocationName: "Hamburg",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown location 404s", func(t *testing.T) {
		body, _ := json.Marshal(CreateListingRequest{
			PostType:     "offer",
			Category:     "fabric",
			Title:        "Linen scraps",
			LocationName: "Atlantis",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "LOCATION_NOT_FOUND")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListingHandler_SearchNearby(t *testing.T) {
	engine, repo, _, _ := newListingTestRouter(t)

	t.Run("missing coordinates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/nearby?radius_km=10", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns nearby listings", func(t *testing.T) {
		repo.On("FindWithinBox", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*domainlisting.Listing{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/nearby?lat=52.52&lng=13.405&radius_km=10", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid latitude", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/nearby?lat=91&lng=0", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListingHandler_Close(t *testing.T) {
	engine, repo, token, userID := newListingTestRouter(t)

	owned, err := domainlisting.NewListing(
		userID, "Maker",
		domainlisting.PostTypeOffer, domainlisting.ListingTypeFree, domainlisting.CategoryFabric,
		"Cotton scraps", "", mustTestPoint(t, 52.52, 13.405), "Berlin",
	)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, owned.ID).Return(owned, nil)
	repo.On("Update", mock.Anything, owned).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+owned.ID.String()+"/close", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(domainlisting.ListingStatusClosed))
}

// Package listing implements offer and request listings with
// location-based search.
package listing

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/geo"
	"github.com/rethread/backend/internal/domain/listing"
	"github.com/rethread/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultSearchRadiusKm = 25.0
	maxSearchRadiusKm     = 500.0
)

// ListingService handles listing operations
type ListingService struct {
	listingRepo listing.ListingRepository
	geocoder    Geocoder
	logger      *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(
	listingRepo listing.ListingRepository,
	geocoder Geocoder,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		geocoder:    geocoder,
		logger:      logger,
	}
}

// Create creates a new listing
func (s *ListingService) Create(ctx context.Context, input CreateListingInput) (*ListingResponse, error) {
	location, locationName, err := s.resolveLocation(ctx, input.Latitude, input.Longitude, input.LocationName)
	if err != nil {
		return nil, err
	}

	l, err := listing.NewListing(
		input.OwnerID,
		input.OwnerName,
		listing.PostType(input.PostType),
		listing.ListingType(input.ListingType),
		listing.Category(input.Category),
		input.Title,
		input.Description,
		location,
		locationName,
	)
	if err != nil {
		return nil, err
	}

	if input.Quantity != "" {
		l.SetQuantity(input.Quantity)
	}
	if input.Price != nil {
		if err := l.SetPrice(*input.Price, input.Currency); err != nil {
			return nil, err
		}
	}
	if len(input.ImageURLs) > 0 {
		if err := l.SetImages(input.ImageURLs); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.Create(ctx, l); err != nil {
		s.logger.Error("Failed to create listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create listing")
	}

	s.logger.Info("Listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("post_type", string(l.PostType)),
		zap.String("category", string(l.Category)))

	response := ToListingResponse(l)
	return &response, nil
}

// GetByID retrieves a listing by ID
func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToListingResponse(l)
	return &response, nil
}

// Update updates a listing's title, description, and category
func (s *ListingService) Update(ctx context.Context, input UpdateListingInput) (*ListingResponse, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := l.UpdateDetails(input.Title, input.Description, listing.Category(input.Category)); err != nil {
		return nil, err
	}
	l.SetQuantity(input.Quantity)

	if err := s.listingRepo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to update listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}

	response := ToListingResponse(l)
	return &response, nil
}

// ChangeListingType switches a listing between free, swap, and sale.
// On requests the listing type carries no meaning and the call is a no-op.
func (s *ListingService) ChangeListingType(ctx context.Context, input ChangeListingTypeInput) (*ListingResponse, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := l.ChangeListingType(listing.ListingType(input.ListingType)); err != nil {
		return nil, err
	}
	if input.Price != nil {
		if err := l.SetPrice(*input.Price, input.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to change listing type", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}

	response := ToListingResponse(l)
	return &response, nil
}

// Relocate moves a listing to a new location
func (s *ListingService) Relocate(ctx context.Context, input RelocateListingInput) (*ListingResponse, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.UserID)
	if err != nil {
		return nil, err
	}

	location, locationName, err := s.resolveLocation(ctx, input.Latitude, input.Longitude, input.LocationName)
	if err != nil {
		return nil, err
	}

	if err := l.Relocate(location, locationName); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to relocate listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}

	response := ToListingResponse(l)
	return &response, nil
}

// SetImages replaces a listing's images
func (s *ListingService) SetImages(ctx context.Context, input SetImagesInput) (*ListingResponse, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := l.SetImages(input.ImageURLs); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to set listing images", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}

	response := ToListingResponse(l)
	return &response, nil
}

// Close marks a listing as closed
func (s *ListingService) Close(ctx context.Context, listingID, userID uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, listingID, userID, (*listing.Listing).Close)
}

// Reopen reactivates a closed listing
func (s *ListingService) Reopen(ctx context.Context, listingID, userID uuid.UUID) (*ListingResponse, error) {
	return s.transition(ctx, listingID, userID, (*listing.Listing).Reopen)
}

// Delete removes a listing permanently
func (s *ListingService) Delete(ctx context.Context, listingID, userID uuid.UUID) error {
	if _, err := s.ownedListing(ctx, listingID, userID); err != nil {
		return err
	}
	if err := s.listingRepo.Delete(ctx, listingID); err != nil {
		s.logger.Error("Failed to delete listing", zap.Error(err))
		return err
	}
	s.logger.Info("Listing deleted", zap.String("listing_id", listingID.String()))
	return nil
}

// Browse returns listings matching the filters, newest first.
// Only active listings are returned unless a status filter is given.
func (s *ListingService) Browse(ctx context.Context, input BrowseInput) (shared.Paginated[ListingResponse], error) {
	filter := s.buildFilter(input.Keyword, input.PostType, input.ListingType, input.Category, input.Page, input.PageSize)
	if input.Status != "" {
		filter = filter.WithStatus(listing.ListingStatus(input.Status))
	} else {
		filter = filter.WithStatus(listing.ListingStatusActive)
	}

	listings, total, err := s.listingRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to browse listings", zap.Error(err))
		return shared.Paginated[ListingResponse]{}, err
	}

	return shared.NewPaginated(ToListingResponses(listings), total, filter.Page, filter.Limit()), nil
}

// ListByOwner returns all listings owned by a user, newest first
func (s *ListingService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ListingResponse, error) {
	listings, err := s.listingRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ToListingResponses(listings), nil
}

// SearchNearby returns active listings within the given radius, closest
// first. Listings exactly on the radius boundary are included.
func (s *ListingService) SearchNearby(ctx context.Context, input SearchNearbyInput) ([]ListingResponse, error) {
	center, err := geo.NewPoint(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	radius := input.RadiusKm
	if radius <= 0 {
		radius = defaultSearchRadiusKm
	}
	if radius > maxSearchRadiusKm {
		radius = maxSearchRadiusKm
	}

	filter := s.buildFilter(input.Keyword, input.PostType, input.ListingType, input.Category, input.Page, input.PageSize)

	// The bounding box over-selects near the corners; the exact
	// great-circle cut happens below.
	minLat, maxLat, minLng, maxLng := listing.SearchBox(center, radius)
	candidates, err := s.listingRepo.FindWithinBox(ctx, minLat, maxLat, minLng, maxLng, filter)
	if err != nil {
		s.logger.Error("Failed to search listings", zap.Error(err))
		return nil, err
	}

	type hit struct {
		listing  *listing.Listing
		distance float64
	}
	hits := make([]hit, 0, len(candidates))
	for _, l := range candidates {
		d := l.DistanceFromKm(center)
		if d <= radius {
			hits = append(hits, hit{listing: l, distance: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	// Pagination applies after the exact distance cut. The box query
	// cannot page because it over-selects near the corners.
	offset := filter.Offset()
	if offset > len(hits) {
		offset = len(hits)
	}
	end := len(hits)
	if limit := filter.Limit(); limit > 0 && offset+limit < end {
		end = offset + limit
	}
	hits = hits[offset:end]

	responses := make([]ListingResponse, len(hits))
	for i, h := range hits {
		responses[i] = ToListingResponse(h.listing)
		d := h.distance
		responses[i].DistanceKm = &d
	}
	return responses, nil
}

// SearchNearPlace geocodes a free-text place and searches around it.
func (s *ListingService) SearchNearPlace(ctx context.Context, place string, input SearchNearbyInput) ([]ListingResponse, error) {
	center, _, err := s.resolveLocation(ctx, nil, nil, place)
	if err != nil {
		return nil, err
	}
	input.Latitude = center.Latitude
	input.Longitude = center.Longitude
	return s.SearchNearby(ctx, input)
}

func (s *ListingService) buildFilter(keyword, postType, listingType, category string, page, pageSize int) listing.Filter {
	filter := listing.NewFilter()
	if keyword != "" {
		filter = filter.WithKeyword(keyword)
	}
	if postType != "" {
		filter = filter.WithPostType(listing.PostType(postType))
	}
	if listingType != "" {
		filter = filter.WithListingType(listing.ListingType(listingType))
	}
	if category != "" {
		filter = filter.WithCategory(listing.Category(category))
	}
	if page > 0 || pageSize > 0 {
		filter = filter.WithPagination(page, pageSize)
	}
	return filter
}

// resolveLocation prefers explicit coordinates and falls back to
// geocoding the location name.
func (s *ListingService) resolveLocation(ctx context.Context, lat, lng *float64, locationName string) (geo.Point, string, error) {
	if lat != nil && lng != nil {
		point, err := geo.NewPoint(*lat, *lng)
		if err != nil {
			return geo.Point{}, "", err
		}
		return point, locationName, nil
	}

	if locationName == "" {
		return geo.Point{}, "", shared.NewDomainError("LOCATION_REQUIRED", "Coordinates or a location name are required")
	}

	result, err := s.geocoder.Geocode(ctx, locationName)
	if err != nil {
		return geo.Point{}, "", err
	}
	return result.Point, result.DisplayName, nil
}

func (s *ListingService) ownedListing(ctx context.Context, listingID, userID uuid.UUID) (*listing.Listing, error) {
	l, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}
	return l, nil
}

func (s *ListingService) transition(ctx context.Context, listingID, userID uuid.UUID, op func(*listing.Listing) error) (*ListingResponse, error) {
	l, err := s.ownedListing(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	if err := op(l); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to update listing status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}
	response := ToListingResponse(l)
	return &response, nil
}

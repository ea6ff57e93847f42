package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/geo"
)

// ListingRepository defines the interface for listing persistence
type ListingRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, listing *Listing) error

	// Update updates an existing listing
	Update(ctx context.Context, listing *Listing) error

	// Delete deletes a listing by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a listing by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// FindAll returns listings matching the filter with pagination
	FindAll(ctx context.Context, filter Filter) ([]*Listing, int64, error)

	// FindByOwner returns all listings owned by a user, newest first
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Listing, error)

	// FindWithinBox returns active listings inside a latitude/longitude
	// bounding box. The box is a coarse pre-filter; callers apply the
	// exact distance cut themselves.
	FindWithinBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64, filter Filter) ([]*Listing, error)

	// Count returns the total number of listings
	Count(ctx context.Context) (int64, error)
}

// Filter contains filter options for querying listings
type Filter struct {
	// Search keyword for title and description
	Keyword string

	PostType    *PostType
	ListingType *ListingType
	Category    *Category
	Status      *ListingStatus
	OwnerID     *uuid.UUID

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewFilter creates a Filter with default values
func NewFilter() Filter {
	return Filter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f Filter) WithKeyword(keyword string) Filter {
	f.Keyword = keyword
	return f
}

// WithPostType sets the post type filter
func (f Filter) WithPostType(postType PostType) Filter {
	f.PostType = &postType
	return f
}

// WithListingType sets the listing type filter
func (f Filter) WithListingType(listingType ListingType) Filter {
	f.ListingType = &listingType
	return f
}

// WithCategory sets the category filter
func (f Filter) WithCategory(category Category) Filter {
	f.Category = &category
	return f
}

// WithStatus sets the status filter
func (f Filter) WithStatus(status ListingStatus) Filter {
	f.Status = &status
	return f
}

// WithOwner sets the owner filter
func (f Filter) WithOwner(ownerID uuid.UUID) Filter {
	f.OwnerID = &ownerID
	return f
}

// WithPagination sets pagination parameters
func (f Filter) WithPagination(page, pageSize int) Filter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f Filter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the limit for pagination
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// SearchBox returns a bounding box around center that fully contains
// the circle of the given radius. Longitude spread widens with latitude;
// near the poles the box degenerates to the full longitude range.
func SearchBox(center geo.Point, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	latDelta := radiusKm / 111.0
	minLat = center.Latitude - latDelta
	maxLat = center.Latitude + latDelta
	if minLat < -90 {
		minLat = -90
	}
	if maxLat > 90 {
		maxLat = 90
	}

	lngDelta := geo.LongitudeDeltaDeg(center.Latitude, radiusKm)
	minLng = center.Longitude - lngDelta
	maxLng = center.Longitude + lngDelta
	if lngDelta >= 180 || minLng < -180 || maxLng > 180 {
		minLng, maxLng = -180, 180
	}
	return minLat, maxLat, minLng, maxLng
}

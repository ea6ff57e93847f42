package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// CreateListingInput contains data for creating a listing
type CreateListingInput struct {
	OwnerID     uuid.UUID
	OwnerName   string
	PostType    string
	ListingType string
	Category    string
	Title       string
	Description string
	Quantity    string

	// Either coordinates or a location name must be provided.
	// A location name without coordinates is geocoded.
	Latitude     *float64
	Longitude    *float64
	LocationName string

	Price     *decimal.Decimal
	Currency  string
	ImageURLs []string
}

// UpdateListingInput contains updatable listing fields
type UpdateListingInput struct {
	UserID      uuid.UUID
	ListingID   uuid.UUID
	Title       string
	Description string
	Quantity    string
	Category    string
}

// ChangeListingTypeInput switches a listing between free, swap, and sale
type ChangeListingTypeInput struct {
	UserID      uuid.UUID
	ListingID   uuid.UUID
	ListingType string

	// Price is required when switching to sale
	Price    *decimal.Decimal
	Currency string
}

// RelocateListingInput moves a listing to a new location
type RelocateListingInput struct {
	UserID       uuid.UUID
	ListingID    uuid.UUID
	Latitude     *float64
	Longitude    *float64
	LocationName string
}

// SetImagesInput replaces a listing's image set
type SetImagesInput struct {
	UserID    uuid.UUID
	ListingID uuid.UUID
	ImageURLs []string
}

// BrowseInput contains browse filters and pagination
type BrowseInput struct {
	Keyword     string
	PostType    string
	ListingType string
	Category    string
	Status      string
	Page        int
	PageSize    int
}

// SearchNearbyInput contains radius search parameters
type SearchNearbyInput struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64

	Keyword     string
	PostType    string
	ListingType string
	Category    string
	Page        int
	PageSize    int
}

// ListingResponse is the listing representation returned to clients
type ListingResponse struct {
	ID           uuid.UUID        `json:"id"`
	OwnerID      uuid.UUID        `json:"owner_id"`
	OwnerName    string           `json:"owner_name"`
	PostType     string           `json:"post_type"`
	ListingType  string           `json:"listing_type,omitempty"`
	Category     string           `json:"category"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Quantity     string           `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Currency     string           `json:"currency,omitempty"`
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	LocationName string           `json:"location_name"`
	ImageURLs    []string         `json:"image_urls"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// DistanceKm is only set on radius search results
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ToListingResponse converts a domain listing to its client representation
func ToListingResponse(l *listing.Listing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		OwnerName:    l.OwnerName,
		PostType:     string(l.PostType),
		ListingType:  string(l.ListingType),
		Category:     string(l.Category),
		Title:        l.Title,
		Description:  l.Description,
		Quantity:     l.Quantity,
		Price:        l.Price,
		Currency:     l.Currency,
		Latitude:     l.Location.Latitude,
		Longitude:    l.Location.Longitude,
		LocationName: l.LocationName,
		ImageURLs:    l.ImageURLs,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// ToListingResponses converts a slice of domain listings
func ToListingResponses(listings []*listing.Listing) []ListingResponse {
	responses := make([]ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = ToListingResponse(l)
	}
	return responses
}

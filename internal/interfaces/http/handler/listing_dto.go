package handler

import "github.com/shopspring/decimal"

// CreateListingRequest is the payload for creating a listing
type CreateListingRequest struct {
	PostType    string `json:"post_type" binding:"required,oneof=offer request"`
	ListingType string `json:"listing_type"`
	Category    string `json:"category" binding:"required,material_category"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`

	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"location_name"`

	Price     *decimal.Decimal `json:"price"`
	Currency  string           `json:"currency"`
	ImageURLs []string         `json:"image_urls"`
}

// UpdateListingRequest is the payload for editing a listing
type UpdateListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Category    string `json:"category" binding:"required,material_category"`
}

// ChangeListingTypeRequest switches a listing between free, swap, and sale
type ChangeListingTypeRequest struct {
	ListingType string           `json:"listing_type" binding:"required,oneof=free swap sale"`
	Price       *decimal.Decimal `json:"price"`
	Currency    string           `json:"currency"`
}

// RelocateListingRequest is the payload for moving a listing
type RelocateListingRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"location_name"`
}

// SetListingImagesRequest replaces a listing's image set
type SetListingImagesRequest struct {
	ImageURLs []string `json:"image_urls" binding:"required"`
}

// BrowseListingsRequest holds browse query parameters
type BrowseListingsRequest struct {
	Keyword     string `form:"keyword"`
	PostType    string `form:"post_type"`
	ListingType string `form:"listing_type"`
	Category    string `form:"category"`
	Status      string `form:"status"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size" binding:"omitempty,max=100"`
}

// SearchNearbyRequest holds radius search query parameters. The center
// is either explicit coordinates or a free-text place resolved through
// the geocoder.
type SearchNearbyRequest struct {
	Latitude  *float64 `form:"lat"`
	Longitude *float64 `form:"lng"`
	Place     string   `form:"place"`
	RadiusKm  float64  `form:"radius_km"`

	Keyword     string `form:"keyword"`
	PostType    string `form:"post_type"`
	ListingType string `form:"listing_type"`
	Category    string `form:"category"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size" binding:"omitempty,max=100"`
}

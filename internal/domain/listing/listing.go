package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/geo"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PostType distinguishes material offers from requests
type PostType string

const (
	PostTypeOffer   PostType = "offer"   // Material being given away, swapped, or sold
	PostTypeRequest PostType = "request" // Material being sought
)

// ListingType is the exchange mode of an offer
type ListingType string

const (
	ListingTypeFree ListingType = "free"
	ListingTypeSwap ListingType = "swap"
	ListingTypeSale ListingType = "sale"
)

// Category is the material category of a listing
type Category string

const (
	CategoryFabric  Category = "fabric"
	CategoryYarn    Category = "yarn"
	CategoryThread  Category = "thread"
	CategoryNotions Category = "notions"
	CategoryLeather Category = "leather"
	CategoryTrim    Category = "trim"
	CategoryTools   Category = "tools"
	CategoryOther   Category = "other"
)

// ListingStatus is the lifecycle status of a listing
type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusClosed ListingStatus = "closed"
)

const maxImages = 8

// Listing represents a published offer or request for craft material.
// It is the aggregate root of the marketplace.
type Listing struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID
	OwnerName   string // Denormalized display name of the owner at publish time
	PostType    PostType
	ListingType ListingType // Empty for requests
	Category    Category
	Title       string
	Description string
	// Quantity is free text, e.g. "3 m" or "two cones"
	Quantity string
	// Price is only set for sale offers
	Price        *decimal.Decimal
	Currency     string
	Location     geo.Point
	LocationName string
	ImageURLs    []string
	Status       ListingStatus
}

// NewListing creates a new active listing.
// For requests the listing type is meaningless and is always cleared,
// whatever the caller passed.
func NewListing(ownerID uuid.UUID, ownerName string, postType PostType, listingType ListingType, category Category, title, description string, location geo.Point, locationName string) (*Listing, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if err := validatePostType(postType); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	if postType == PostTypeRequest {
		listingType = ""
	} else if err := validateListingType(listingType); err != nil {
		return nil, err
	}

	return &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		OwnerName:         strings.TrimSpace(ownerName),
		PostType:          postType,
		ListingType:       listingType,
		Category:          category,
		Title:             strings.TrimSpace(title),
		Description:       strings.TrimSpace(description),
		Location:          location,
		LocationName:      strings.TrimSpace(locationName),
		ImageURLs:         make([]string, 0),
		Status:            ListingStatusActive,
	}, nil
}

// SetPrice sets the asking price. Only sale offers carry a price.
func (l *Listing) SetPrice(price decimal.Decimal, currency string) error {
	if l.PostType != PostTypeOffer || l.ListingType != ListingTypeSale {
		return shared.NewDomainError("PRICE_NOT_ALLOWED", "Only sale offers can have a price")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}

	l.Price = &price
	l.Currency = currency
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// ClearPrice removes the price, e.g. when a sale offer becomes a swap
func (l *Listing) ClearPrice() {
	l.Price = nil
	l.Currency = ""
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetQuantity records the free-text amount on offer
func (l *Listing) SetQuantity(quantity string) {
	l.Quantity = strings.TrimSpace(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// UpdateDetails updates title, description, and category
func (l *Listing) UpdateDetails(title, description string, category Category) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	l.Title = strings.TrimSpace(title)
	l.Description = strings.TrimSpace(description)
	l.Category = category
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// ChangeListingType changes the exchange mode of an offer.
// On requests this is a no-op.
func (l *Listing) ChangeListingType(listingType ListingType) error {
	if l.PostType == PostTypeRequest {
		return nil
	}
	if err := validateListingType(listingType); err != nil {
		return err
	}

	l.ListingType = listingType
	if listingType != ListingTypeSale {
		l.Price = nil
		l.Currency = ""
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Relocate moves the listing to a new point
func (l *Listing) Relocate(location geo.Point, locationName string) error {
	if err := location.Validate(); err != nil {
		return err
	}

	l.Location = location
	l.LocationName = strings.TrimSpace(locationName)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetImages replaces the image URLs
func (l *Listing) SetImages(urls []string) error {
	if len(urls) > maxImages {
		return shared.NewDomainError("TOO_MANY_IMAGES", "A listing can have at most 8 images")
	}
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot be empty")
		}
	}

	l.ImageURLs = urls
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Close marks the listing as fulfilled or withdrawn
func (l *Listing) Close() error {
	if l.Status == ListingStatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Listing is already closed")
	}

	l.Status = ListingStatusClosed
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Reopen re-activates a closed listing
func (l *Listing) Reopen() error {
	if l.Status == ListingStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Listing is already active")
	}

	l.Status = ListingStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// IsActive returns true if the listing is visible in searches
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// IsOwnedBy returns true if the given user owns this listing
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID == userID
}

// DistanceFromKm returns the great-circle distance from a point in kilometers
func (l *Listing) DistanceFromKm(from geo.Point) float64 {
	return l.Location.DistanceKm(from)
}

// Validation functions

func validatePostType(postType PostType) error {
	switch postType {
	case PostTypeOffer, PostTypeRequest:
		return nil
	}
	return shared.NewDomainError("INVALID_POST_TYPE", "Post type must be offer or request")
}

func validateListingType(listingType ListingType) error {
	switch listingType {
	case ListingTypeFree, ListingTypeSwap, ListingTypeSale:
		return nil
	}
	return shared.NewDomainError("INVALID_LISTING_TYPE", "Listing type must be free, swap, or sale")
}

// IsValid reports whether the category is one of the known material
// categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFabric, CategoryYarn, CategoryThread, CategoryNotions,
		CategoryLeather, CategoryTrim, CategoryTools, CategoryOther:
		return true
	}
	return false
}

func validateCategory(category Category) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown material category")
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 5000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 5000 characters")
	}
	return nil
}

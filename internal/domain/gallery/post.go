package gallery

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
)

const maxPostImages = 8

// Post is a finished-work showcase entry in the community gallery
type Post struct {
	shared.BaseAggregateRoot
	AuthorID   uuid.UUID
	AuthorName string // Denormalized display name at publish time
	Title      string
	Caption    string
	ImageURLs  []string
	// ListingID optionally links the post to the listing the material came from
	ListingID *uuid.UUID
}

// NewPost creates a gallery post. At least one image is required.
func NewPost(authorID uuid.UUID, authorName, title, caption string, imageURLs []string) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if len(caption) > 2000 {
		return nil, shared.NewDomainError("INVALID_CAPTION", "Caption cannot exceed 2000 characters")
	}
	if len(imageURLs) == 0 {
		return nil, shared.NewDomainError("MISSING_IMAGE", "A gallery post needs at least one image")
	}
	if len(imageURLs) > maxPostImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", "A gallery post can have at most 8 images")
	}
	for _, u := range imageURLs {
		if strings.TrimSpace(u) == "" {
			return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot be empty")
		}
	}

	return &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AuthorID:          authorID,
		AuthorName:        strings.TrimSpace(authorName),
		Title:             title,
		Caption:           strings.TrimSpace(caption),
		ImageURLs:         imageURLs,
	}, nil
}

// UpdateCaption updates title and caption
func (p *Post) UpdateCaption(title, caption string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if len(caption) > 2000 {
		return shared.NewDomainError("INVALID_CAPTION", "Caption cannot exceed 2000 characters")
	}

	p.Title = title
	p.Caption = strings.TrimSpace(caption)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// LinkListing records the listing the showcased material came from
func (p *Post) LinkListing(listingID uuid.UUID) error {
	if listingID == uuid.Nil {
		return shared.NewDomainError("INVALID_LISTING", "Listing ID cannot be empty")
	}

	p.ListingID = &listingID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UnlinkListing clears the source listing reference
func (p *Post) UnlinkListing() {
	p.ListingID = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsOwnedBy returns true if the given user authored this post
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

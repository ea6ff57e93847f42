// Package gallery implements the shared project gallery.
package gallery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/gallery"
	"github.com/rethread/backend/internal/domain/listing"
	"github.com/rethread/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreatePostInput contains data for creating a gallery post
type CreatePostInput struct {
	AuthorID   uuid.UUID
	AuthorName string
	Title      string
	Caption    string
	ImageURLs  []string
	ListingID  *uuid.UUID
}

// UpdateCaptionInput updates a post's title and caption
type UpdateCaptionInput struct {
	UserID  uuid.UUID
	PostID  uuid.UUID
	Title   string
	Caption string
}

// PostResponse is the gallery post representation returned to clients
type PostResponse struct {
	ID         uuid.UUID  `json:"id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	AuthorName string     `json:"author_name"`
	Title      string     `json:"title"`
	Caption    string     `json:"caption,omitempty"`
	ImageURLs  []string   `json:"image_urls"`
	ListingID  *uuid.UUID `json:"listing_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToPostResponse converts a domain post to its client representation
func ToPostResponse(p *gallery.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		Title:      p.Title,
		Caption:    p.Caption,
		ImageURLs:  p.ImageURLs,
		ListingID:  p.ListingID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToPostResponses converts a slice of domain posts
func ToPostResponses(posts []*gallery.Post) []PostResponse {
	responses := make([]PostResponse, len(posts))
	for i, p := range posts {
		responses[i] = ToPostResponse(p)
	}
	return responses
}

// GalleryService handles gallery post operations
type GalleryService struct {
	postRepo    gallery.PostRepository
	listingRepo listing.ListingRepository
	logger      *zap.Logger
}

// NewGalleryService creates a new gallery service
func NewGalleryService(
	postRepo gallery.PostRepository,
	listingRepo listing.ListingRepository,
	logger *zap.Logger,
) *GalleryService {
	return &GalleryService{
		postRepo:    postRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// Create publishes a new gallery post. A linked listing must exist.
func (s *GalleryService) Create(ctx context.Context, input CreatePostInput) (*PostResponse, error) {
	post, err := gallery.NewPost(input.AuthorID, input.AuthorName, input.Title, input.Caption, input.ImageURLs)
	if err != nil {
		return nil, err
	}

	if input.ListingID != nil {
		if err := s.verifyListing(ctx, *input.ListingID); err != nil {
			return nil, err
		}
		if err := post.LinkListing(*input.ListingID); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create gallery post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create gallery post")
	}

	s.logger.Info("Gallery post created",
		zap.String("post_id", post.ID.String()),
		zap.String("author_id", post.AuthorID.String()))

	response := ToPostResponse(post)
	return &response, nil
}

// GetByID retrieves a gallery post by ID
func (s *GalleryService) GetByID(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPostResponse(post)
	return &response, nil
}

// List returns gallery posts, newest first
func (s *GalleryService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[PostResponse], error) {
	posts, total, err := s.postRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list gallery posts", zap.Error(err))
		return shared.Paginated[PostResponse]{}, err
	}
	return shared.NewPaginated(ToPostResponses(posts), total, filter.Page, filter.Limit()), nil
}

// ListByAuthor returns all posts by a user, newest first
func (s *GalleryService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]PostResponse, error) {
	posts, err := s.postRepo.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return ToPostResponses(posts), nil
}

// UpdateCaption updates a post's title and caption
func (s *GalleryService) UpdateCaption(ctx context.Context, input UpdateCaptionInput) (*PostResponse, error) {
	post, err := s.ownedPost(ctx, input.PostID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := post.UpdateCaption(input.Title, input.Caption); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.logger.Error("Failed to update gallery post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update gallery post")
	}

	response := ToPostResponse(post)
	return &response, nil
}

// LinkListing attaches a listing to an existing post. A nil listing ID
// clears the current link.
func (s *GalleryService) LinkListing(ctx context.Context, postID, userID uuid.UUID, listingID *uuid.UUID) (*PostResponse, error) {
	post, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if listingID == nil {
		post.UnlinkListing()
	} else {
		if err := s.verifyListing(ctx, *listingID); err != nil {
			return nil, err
		}
		if err := post.LinkListing(*listingID); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.logger.Error("Failed to link listing to gallery post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update gallery post")
	}

	response := ToPostResponse(post)
	return &response, nil
}

// Delete removes a gallery post
func (s *GalleryService) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	if _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		s.logger.Error("Failed to delete gallery post", zap.Error(err))
		return err
	}
	s.logger.Info("Gallery post deleted", zap.String("post_id", postID.String()))
	return nil
}

func (s *GalleryService) ownedPost(ctx context.Context, postID, userID uuid.UUID) (*gallery.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}
	return post, nil
}

func (s *GalleryService) verifyListing(ctx context.Context, listingID uuid.UUID) error {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("LISTING_NOT_FOUND", "Linked listing not found")
		}
		return err
	}
	return nil
}

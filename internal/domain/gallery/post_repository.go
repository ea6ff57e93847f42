package gallery

import (
	"context"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
)

// PostRepository defines the interface for gallery post persistence
type PostRepository interface {
	// Create creates a new post
	Create(ctx context.Context, post *Post) error

	// Update updates an existing post
	Update(ctx context.Context, post *Post) error

	// Delete deletes a post by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a post by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindAll returns posts newest first with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*Post, int64, error)

	// FindByAuthor returns all posts by an author, newest first
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error)
}

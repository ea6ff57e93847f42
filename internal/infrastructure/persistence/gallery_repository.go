package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/gallery"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/rethread/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGalleryRepository implements gallery.PostRepository using GORM
type GormGalleryRepository struct {
	db *gorm.DB
}

// NewGormGalleryRepository creates a new GormGalleryRepository
func NewGormGalleryRepository(db *gorm.DB) *GormGalleryRepository {
	return &GormGalleryRepository{db: db}
}

// Create creates a new gallery post
func (r *GormGalleryRepository) Create(ctx context.Context, post *gallery.Post) error {
	model := models.GalleryPostModelFromDomain(post)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing gallery post
func (r *GormGalleryRepository) Update(ctx context.Context, post *gallery.Post) error {
	model := models.GalleryPostModelFromDomain(post)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a gallery post by ID
func (r *GormGalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.GalleryPostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a gallery post by ID
func (r *GormGalleryRepository) FindByID(ctx context.Context, id uuid.UUID) (*gallery.Post, error) {
	var model models.GalleryPostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns gallery posts newest first with pagination
func (r *GormGalleryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*gallery.Post, int64, error) {
	var postModels []*models.GalleryPostModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.GalleryPostModel{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at desc").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&postModels).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*gallery.Post, len(postModels))
	for i, model := range postModels {
		posts[i] = model.ToDomain()
	}

	return posts, total, nil
}

// FindByAuthor returns all posts by an author, newest first
func (r *GormGalleryRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*gallery.Post, error) {
	var postModels []*models.GalleryPostModel
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*gallery.Post, len(postModels))
	for i, model := range postModels {
		posts[i] = model.ToDomain()
	}

	return posts, nil
}

var _ gallery.PostRepository = (*GormGalleryRepository)(nil)

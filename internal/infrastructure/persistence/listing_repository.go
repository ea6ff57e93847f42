package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/listing"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/rethread/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormListingRepository implements listing.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Create creates a new listing
func (r *GormListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	model := models.ListingModelFromDomain(l)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing listing
func (r *GormListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	model := models.ListingModelFromDomain(l)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a listing by ID
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ListingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a listing by ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns listings matching the filter with pagination
func (r *GormListingRepository) FindAll(ctx context.Context, filter listing.Filter) ([]*listing.Listing, int64, error) {
	var listingModels []*models.ListingModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ListingModel{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&listingModels).Error; err != nil {
		return nil, 0, err
	}

	listings := make([]*listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = model.ToDomain()
	}

	return listings, total, nil
}

// FindByOwner returns all listings owned by a user, newest first
func (r *GormListingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*listing.Listing, error) {
	var listingModels []*models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = model.ToDomain()
	}

	return listings, nil
}

// FindWithinBox returns active listings inside a coordinate bounding box.
// The box is a coarse pre-filter; the service applies the exact
// great-circle distance cut on the result.
func (r *GormListingRepository) FindWithinBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64, filter listing.Filter) ([]*listing.Listing, error) {
	var listingModels []*models.ListingModel

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ListingModel{}), filter).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLng, maxLng).
		Where("status = ?", listing.ListingStatusActive).
		Order("created_at desc")

	if err := query.Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = model.ToDomain()
	}

	return listings, nil
}

// Count returns the total number of listings
func (r *GormListingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ListingModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormListingRepository) applyFilter(query *gorm.DB, filter listing.Filter) *gorm.DB {
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}
	if filter.PostType != nil {
		query = query.Where("post_type = ?", *filter.PostType)
	}
	if filter.ListingType != nil {
		// Requests carry no listing type, so the filter leaves them in place.
		query = query.Where("listing_type = ? OR post_type = ?", *filter.ListingType, listing.PostTypeRequest)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	return query
}

var _ listing.ListingRepository = (*GormListingRepository)(nil)

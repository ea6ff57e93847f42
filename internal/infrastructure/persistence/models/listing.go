package models

import (
	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/geo"
	"github.com/rethread/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// ListingModel is the persistence model for the Listing aggregate.
// Image URLs are stored as a JSON-serialized column so the model works
// on both Postgres and the in-memory SQLite used in tests.
type ListingModel struct {
	AggregateModel
	OwnerID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	OwnerName    string                `gorm:"type:varchar(100);not null"`
	PostType     listing.PostType      `gorm:"type:varchar(10);not null;index"`
	ListingType  listing.ListingType   `gorm:"type:varchar(10);index"`
	Category     listing.Category      `gorm:"type:varchar(20);not null;index"`
	Title        string                `gorm:"type:varchar(200);not null"`
	Description  string                `gorm:"type:text"`
	Quantity     string                `gorm:"type:varchar(100)"`
	Price        *decimal.Decimal      `gorm:"type:decimal(12,2)"`
	Currency     string                `gorm:"type:varchar(3)"`
	Latitude     float64               `gorm:"not null;index"`
	Longitude    float64               `gorm:"not null;index"`
	LocationName string                `gorm:"type:varchar(200)"`
	ImageURLs    []string              `gorm:"serializer:json"`
	Status       listing.ListingStatus `gorm:"type:varchar(10);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model to a domain Listing aggregate.
func (m *ListingModel) ToDomain() *listing.Listing {
	urls := m.ImageURLs
	if urls == nil {
		urls = make([]string, 0)
	}
	return &listing.Listing{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OwnerID:           m.OwnerID,
		OwnerName:         m.OwnerName,
		PostType:          m.PostType,
		ListingType:       m.ListingType,
		Category:          m.Category,
		Title:             m.Title,
		Description:       m.Description,
		Quantity:          m.Quantity,
		Price:             m.Price,
		Currency:          m.Currency,
		Location:          geo.Point{Latitude: m.Latitude, Longitude: m.Longitude},
		LocationName:      m.LocationName,
		ImageURLs:         urls,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Listing aggregate.
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.OwnerID = l.OwnerID
	m.OwnerName = l.OwnerName
	m.PostType = l.PostType
	m.ListingType = l.ListingType
	m.Category = l.Category
	m.Title = l.Title
	m.Description = l.Description
	m.Quantity = l.Quantity
	m.Price = l.Price
	m.Currency = l.Currency
	m.Latitude = l.Location.Latitude
	m.Longitude = l.Location.Longitude
	m.LocationName = l.LocationName
	m.ImageURLs = l.ImageURLs
	m.Status = l.Status
}

// ListingModelFromDomain creates a new persistence model from a domain Listing.
func ListingModelFromDomain(l *listing.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}

package models

import (
	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/gallery"
)

// GalleryPostModel is the persistence model for the gallery Post aggregate.
type GalleryPostModel struct {
	AggregateModel
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorName string     `gorm:"type:varchar(100);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Caption    string     `gorm:"type:text"`
	ImageURLs  []string   `gorm:"serializer:json"`
	ListingID  *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (GalleryPostModel) TableName() string {
	return "gallery_posts"
}

// ToDomain converts the persistence model to a domain Post aggregate.
func (m *GalleryPostModel) ToDomain() *gallery.Post {
	urls := m.ImageURLs
	if urls == nil {
		urls = make([]string, 0)
	}
	return &gallery.Post{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AuthorID:          m.AuthorID,
		AuthorName:        m.AuthorName,
		Title:             m.Title,
		Caption:           m.Caption,
		ImageURLs:         urls,
		ListingID:         m.ListingID,
	}
}

// FromDomain populates the persistence model from a domain Post aggregate.
func (m *GalleryPostModel) FromDomain(p *gallery.Post) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.AuthorID = p.AuthorID
	m.AuthorName = p.AuthorName
	m.Title = p.Title
	m.Caption = p.Caption
	m.ImageURLs = p.ImageURLs
	m.ListingID = p.ListingID
}

// GalleryPostModelFromDomain creates a new persistence model from a domain Post.
func GalleryPostModelFromDomain(p *gallery.Post) *GalleryPostModel {
	m := &GalleryPostModel{}
	m.FromDomain(p)
	return m
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rethread/backend/internal/application/gallery"
	"github.com/rethread/backend/internal/interfaces/http/dto"
	"github.com/rethread/backend/internal/interfaces/http/middleware"
)

// CreateGalleryPostRequest is the payload for creating a gallery post
type CreateGalleryPostRequest struct {
	Title     string     `json:"title" binding:"required"`
	Caption   string     `json:"caption"`
	ImageURLs []string   `json:"image_urls" binding:"required,min=1"`
	ListingID *uuid.UUID `json:"listing_id"`
}

// UpdateCaptionRequest is the payload for editing a post's title and caption
type UpdateCaptionRequest struct {
	Title   string `json:"title" binding:"required"`
	Caption string `json:"caption"`
}

// LinkListingRequest ties a gallery post to a listing. A null or absent
// listing_id removes an existing link.
type LinkListingRequest struct {
	ListingID *uuid.UUID `json:"listing_id"`
}

// GalleryHandler handles gallery post HTTP requests
type GalleryHandler struct {
	BaseHandler
	galleryService *gallery.GalleryService
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService *gallery.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
	}
}

// Create publishes a new gallery post
func (h *GalleryHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateGalleryPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	claims := middleware.GetJWTClaims(c)
	authorName := ""
	if claims != nil {
		authorName = claims.DisplayName
	}

	result, err := h.galleryService.Create(c.Request.Context(), gallery.CreatePostInput{
		AuthorID:   userID,
		AuthorName: authorName,
		Title:      req.Title,
		Caption:    req.Caption,
		ImageURLs:  req.ImageURLs,
		ListingID:  req.ListingID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a single gallery post
func (h *GalleryHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	result, err := h.galleryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns gallery posts, newest first
func (h *GalleryHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.galleryService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// ListByAuthor returns a user's gallery posts
func (h *GalleryHandler) ListByAuthor(c *gin.Context) {
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	results, err := h.galleryService.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// UpdateCaption edits a post's caption
func (h *GalleryHandler) UpdateCaption(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req UpdateCaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.galleryService.UpdateCaption(c.Request.Context(), gallery.UpdateCaptionInput{
		UserID:  userID,
		PostID:  id,
		Title:   req.Title,
		Caption: req.Caption,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// LinkListing ties a post to one of the author's listings, or clears the
// link when no listing_id is given
func (h *GalleryHandler) LinkListing(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req LinkListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.galleryService.LinkListing(c.Request.Context(), id, userID, req.ListingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a gallery post
func (h *GalleryHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.galleryService.Delete(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

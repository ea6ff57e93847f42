package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rethread/backend/internal/application/listing"
	"github.com/rethread/backend/internal/interfaces/http/middleware"
)

// ListingHandler handles listing HTTP requests
type ListingHandler struct {
	BaseHandler
	listingService *listing.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *listing.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// Create creates a new listing owned by the authenticated user
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	claims := middleware.GetJWTClaims(c)
	ownerName := ""
	if claims != nil {
		ownerName = claims.DisplayName
	}

	result, err := h.listingService.Create(c.Request.Context(), listing.CreateListingInput{
		OwnerID:      userID,
		OwnerName:    ownerName,
		PostType:     req.PostType,
		ListingType:  req.ListingType,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
		Price:        req.Price,
		Currency:     req.Currency,
		ImageURLs:    req.ImageURLs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a single listing
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.listingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update edits a listing's title, description, and category
func (h *ListingHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.Update(c.Request.Context(), listing.UpdateListingInput{
		UserID:      userID,
		ListingID:   id,
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		Category:    req.Category,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangeType switches a listing between free, swap, and sale
func (h *ListingHandler) ChangeType(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req ChangeListingTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.ChangeListingType(c.Request.Context(), listing.ChangeListingTypeInput{
		UserID:      userID,
		ListingID:   id,
		ListingType: req.ListingType,
		Price:       req.Price,
		Currency:    req.Currency,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Relocate moves a listing to a new location
func (h *ListingHandler) Relocate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req RelocateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.Relocate(c.Request.Context(), listing.RelocateListingInput{
		UserID:       userID,
		ListingID:    id,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetImages replaces a listing's image set
func (h *ListingHandler) SetImages(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req SetListingImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.SetImages(c.Request.Context(), listing.SetImagesInput{
		UserID:    userID,
		ListingID: id,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Close marks a listing as closed
func (h *ListingHandler) Close(c *gin.Context) {
	h.transition(c, h.listingService.Close)
}

// Reopen reactivates a closed listing
func (h *ListingHandler) Reopen(c *gin.Context) {
	h.transition(c, h.listingService.Reopen)
}

// Delete removes a listing
func (h *ListingHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Browse lists active listings with filters and pagination
func (h *ListingHandler) Browse(c *gin.Context) {
	var req BrowseListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.listingService.Browse(c.Request.Context(), listing.BrowseInput{
		Keyword:     req.Keyword,
		PostType:    req.PostType,
		ListingType: req.ListingType,
		Category:    req.Category,
		Status:      req.Status,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// SearchNearby returns active listings within a radius of a point,
// closest first
func (h *ListingHandler) SearchNearby(c *gin.Context) {
	var req SearchNearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid search parameters")
		return
	}

	input := listing.SearchNearbyInput{
		RadiusKm:    req.RadiusKm,
		Keyword:     req.Keyword,
		PostType:    req.PostType,
		ListingType: req.ListingType,
		Category:    req.Category,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	var (
		results []listing.ListingResponse
		err     error
	)
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		input.Latitude = *req.Latitude
		input.Longitude = *req.Longitude
		results, err = h.listingService.SearchNearby(c.Request.Context(), input)
	case req.Place != "":
		results, err = h.listingService.SearchNearPlace(c.Request.Context(), req.Place, input)
	default:
		h.BadRequest(c, "Provide lat and lng, or a place to search around")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListMine returns the authenticated user's listings
func (h *ListingHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	results, err := h.listingService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

func (h *ListingHandler) transition(c *gin.Context, op func(ctx context.Context, listingID, userID uuid.UUID) (*listing.ListingResponse, error)) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := op(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

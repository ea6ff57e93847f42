package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rethread/backend/internal/application/media"
)

// RequestUploadRequest is the payload for requesting a presigned upload
type RequestUploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
}

// ConfirmUploadRequest is the payload for confirming an upload
type ConfirmUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// MediaHandler handles image upload HTTP requests
type MediaHandler struct {
	BaseHandler
	uploadService *media.UploadService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(uploadService *media.UploadService) *MediaHandler {
	return &MediaHandler{
		uploadService: uploadService,
	}
}

// RequestUpload issues a presigned URL for a direct image upload
func (h *MediaHandler) RequestUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.uploadService.RequestUpload(c.Request.Context(), userID, media.RequestUploadInput{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmUpload verifies the object landed in storage and returns its
// public URL
func (h *MediaHandler) ConfirmUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	publicURL, err := h.uploadService.ConfirmUpload(c.Request.Context(), userID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"public_url": publicURL})
}

// DeleteImage removes one of the user's uploaded images
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	storageKey := c.Query("key")
	if storageKey == "" {
		h.BadRequest(c, "Missing storage key")
		return
	}

	if err := h.uploadService.DeleteImage(c.Request.Context(), userID, storageKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

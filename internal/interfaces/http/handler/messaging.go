package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rethread/backend/internal/application/messaging"
	"github.com/rethread/backend/internal/interfaces/http/dto"
)

// SendMessageRequest is the payload for sending a direct message
type SendMessageRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	ListingID   *uuid.UUID `json:"listing_id"`
}

// MessagingHandler handles conversation and message HTTP requests
type MessagingHandler struct {
	BaseHandler
	messagingService *messaging.MessagingService
}

// NewMessagingHandler creates a new messaging handler
func NewMessagingHandler(messagingService *messaging.MessagingService) *MessagingHandler {
	return &MessagingHandler{
		messagingService: messagingService,
	}
}

// SendMessage delivers a direct message, opening the conversation on
// first contact
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.messagingService.SendMessage(c.Request.Context(), messaging.SendMessageInput{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
		ListingID:   req.ListingID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListConversations returns the authenticated user's conversations
func (h *MessagingHandler) ListConversations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	results, err := h.messagingService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListMessages returns a conversation's messages and marks them read
func (h *MessagingHandler) ListMessages(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.messagingService.ListMessages(c.Request.Context(), conversationID, userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(c, page)
}

// UnreadCount returns the authenticated user's total unread messages
func (h *MessagingHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.messagingService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread_count": count})
}

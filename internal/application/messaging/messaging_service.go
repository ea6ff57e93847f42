// Package messaging implements direct messages between users.
package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/messaging"
	"github.com/rethread/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SendMessageInput contains data for sending a direct message.
// The conversation with the recipient is created on first contact.
type SendMessageInput struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Body        string

	// ListingID optionally ties the conversation to a listing
	ListingID *uuid.UUID
}

// ConversationResponse is the conversation representation returned to clients
type ConversationResponse struct {
	ID            uuid.UUID  `json:"id"`
	OtherUserID   uuid.UUID  `json:"other_user_id"`
	ListingID     *uuid.UUID `json:"listing_id,omitempty"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64      `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MessageResponse is the message representation returned to clients
type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToMessageResponse converts a domain message to its client representation
func ToMessageResponse(m *messaging.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

// MessagingService handles conversations and messages
type MessagingService struct {
	conversationRepo messaging.ConversationRepository
	messageRepo      messaging.MessageRepository
	logger           *zap.Logger
}

// NewMessagingService creates a new messaging service
func NewMessagingService(
	conversationRepo messaging.ConversationRepository,
	messageRepo messaging.MessageRepository,
	logger *zap.Logger,
) *MessagingService {
	return &MessagingService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		logger:           logger,
	}
}

// SendMessage delivers a message, creating the conversation on first contact
func (s *MessagingService) SendMessage(ctx context.Context, input SendMessageInput) (*MessageResponse, error) {
	conversation, err := s.findOrCreateConversation(ctx, input.SenderID, input.RecipientID, input.ListingID)
	if err != nil {
		return nil, err
	}

	message, err := messaging.NewMessage(conversation.ID, input.SenderID, input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		s.logger.Error("Failed to create message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to send message")
	}

	conversation.TouchLastMessage(message.Body, message.CreatedAt)
	if err := s.conversationRepo.Update(ctx, conversation); err != nil {
		// The message is already delivered, only the ordering hint is stale
		s.logger.Error("Failed to touch conversation", zap.Error(err))
	}

	response := ToMessageResponse(message)
	return &response, nil
}

// ListConversations returns the user's conversations, most recently
// active first, each with its unread message count.
func (s *MessagingService) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationResponse, error) {
	conversations, err := s.conversationRepo.FindByParticipant(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list conversations", zap.Error(err))
		return nil, err
	}

	responses := make([]ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		other, ok := c.OtherParticipant(userID)
		if !ok {
			continue
		}
		unread, err := s.messageRepo.CountUnreadInConversation(ctx, c.ID, userID)
		if err != nil {
			s.logger.Error("Failed to count unread messages",
				zap.String("conversation_id", c.ID.String()),
				zap.Error(err))
			unread = 0
		}
		responses = append(responses, ConversationResponse{
			ID:            c.ID,
			OtherUserID:   other,
			ListingID:     c.ListingID,
			LastMessage:   c.LastMessageBody,
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   unread,
			CreatedAt:     c.CreatedAt,
		})
	}
	return responses, nil
}

// ListMessages returns a conversation's messages, oldest first, and
// marks messages addressed to the reader as read.
func (s *MessagingService) ListMessages(ctx context.Context, conversationID, userID uuid.UUID, filter shared.Filter) (shared.Paginated[MessageResponse], error) {
	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return shared.Paginated[MessageResponse]{}, err
	}
	if !conversation.HasParticipant(userID) {
		return shared.Paginated[MessageResponse]{}, shared.ErrForbidden
	}

	messages, total, err := s.messageRepo.FindByConversation(ctx, conversationID, filter)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		return shared.Paginated[MessageResponse]{}, err
	}

	if err := s.messageRepo.MarkConversationRead(ctx, conversationID, userID); err != nil {
		s.logger.Error("Failed to mark conversation read", zap.Error(err))
	}

	responses := make([]MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = ToMessageResponse(m)
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.Limit()), nil
}

// CountUnread returns the user's total unread message count
func (s *MessagingService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

// findOrCreateConversation returns the conversation for the pair,
// creating it on first contact. When two first messages race, the
// unique pair index picks a winner and the loser re-reads it.
func (s *MessagingService) findOrCreateConversation(ctx context.Context, senderID, recipientID uuid.UUID, listingID *uuid.UUID) (*messaging.Conversation, error) {
	a, b := messaging.NormalizePair(senderID, recipientID)

	conversation, err := s.conversationRepo.FindByPair(ctx, a, b)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up conversation", zap.Error(err))
		return nil, err
	}

	conversation, err = messaging.NewConversation(senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if listingID != nil {
		if err := conversation.LinkListing(*listingID); err != nil {
			return nil, err
		}
	}

	if err := s.conversationRepo.Create(ctx, conversation); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.conversationRepo.FindByPair(ctx, a, b)
		}
		s.logger.Error("Failed to create conversation", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Conversation created",
		zap.String("conversation_id", conversation.ID.String()))
	return conversation, nil
}

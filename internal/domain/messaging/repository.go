package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
)

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	// Create creates a new conversation. Implementations must surface
	// shared.ErrAlreadyExists when the normalized participant pair is
	// already present, so the service can re-read the winner.
	Create(ctx context.Context, conversation *Conversation) error

	// Update updates an existing conversation
	Update(ctx context.Context, conversation *Conversation) error

	// FindByID finds a conversation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)

	// FindByPair finds the conversation for a normalized participant pair
	FindByPair(ctx context.Context, participantA, participantB uuid.UUID) (*Conversation, error)

	// FindByParticipant returns all conversations a user takes part in,
	// most recently active first
	FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*Conversation, error)
}

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	// Create creates a new message
	Create(ctx context.Context, message *Message) error

	// Update updates an existing message
	Update(ctx context.Context, message *Message) error

	// FindByConversation returns messages of a conversation, oldest
	// first, with pagination
	FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]*Message, int64, error)

	// MarkConversationRead marks all messages sent to the reader in a
	// conversation as read
	MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error

	// CountUnread counts unread messages addressed to a user across
	// all conversations
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountUnreadInConversation counts unread messages addressed to a
	// user within a single conversation
	CountUnreadInConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
}

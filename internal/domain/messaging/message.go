package messaging

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
)

const maxMessageLength = 4000

// Message is a single text message inside a conversation
type Message struct {
	shared.BaseEntity
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
	ReadAt         *time.Time
}

// NewMessage creates a message. The sender must be a participant of
// the conversation; the service layer checks that before calling.
func NewMessage(conversationID, senderID uuid.UUID, body string) (*Message, error) {
	if conversationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONVERSATION", "Conversation ID cannot be empty")
	}
	if senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SENDER", "Sender ID cannot be empty")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message body cannot be empty")
	}
	if len(body) > maxMessageLength {
		return nil, shared.NewDomainError("MESSAGE_TOO_LONG", "Message body cannot exceed 4000 characters")
	}

	return &Message{
		BaseEntity:     shared.NewBaseEntity(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}, nil
}

// MarkRead records when the recipient read the message
func (m *Message) MarkRead(at time.Time) {
	if m.ReadAt != nil {
		return
	}
	m.ReadAt = &at
	m.UpdatedAt = time.Now()
}

// IsRead returns true once the recipient has read the message
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/messaging"
)

// ConversationModel is the persistence model for the Conversation aggregate.
// The unique index on the normalized participant pair guarantees a single
// conversation per pair even under concurrent creation.
type ConversationModel struct {
	AggregateModel
	ParticipantA    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair;index"`
	ParticipantB    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair;index"`
	ListingID       *uuid.UUID `gorm:"type:uuid;index"`
	LastMessageBody string     `gorm:"type:varchar(200)"`
	LastMessageAt   *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ConversationModel) TableName() string {
	return "conversations"
}

// ToDomain converts the persistence model to a domain Conversation aggregate.
func (m *ConversationModel) ToDomain() *messaging.Conversation {
	return &messaging.Conversation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ParticipantA:      m.ParticipantA,
		ParticipantB:      m.ParticipantB,
		ListingID:         m.ListingID,
		LastMessageBody:   m.LastMessageBody,
		LastMessageAt:     m.LastMessageAt,
	}
}

// FromDomain populates the persistence model from a domain Conversation.
func (m *ConversationModel) FromDomain(c *messaging.Conversation) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ParticipantA = c.ParticipantA
	m.ParticipantB = c.ParticipantB
	m.ListingID = c.ListingID
	m.LastMessageBody = c.LastMessageBody
	m.LastMessageAt = c.LastMessageAt
}

// ConversationModelFromDomain creates a new persistence model from a domain Conversation.
func ConversationModelFromDomain(c *messaging.Conversation) *ConversationModel {
	m := &ConversationModel{}
	m.FromDomain(c)
	return m
}

// MessageModel is the persistence model for the Message entity.
type MessageModel struct {
	BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Body           string    `gorm:"type:text;not null"`
	ReadAt         *time.Time
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message entity.
func (m *MessageModel) ToDomain() *messaging.Message {
	return &messaging.Message{
		BaseEntity:     m.BaseModel.ToDomain(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		ReadAt:         m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Message.
func (m *MessageModel) FromDomain(msg *messaging.Message) {
	m.FromDomainBaseEntity(msg.BaseEntity)
	m.ConversationID = msg.ConversationID
	m.SenderID = msg.SenderID
	m.Body = msg.Body
	m.ReadAt = msg.ReadAt
}

// MessageModelFromDomain creates a new persistence model from a domain Message.
func MessageModelFromDomain(msg *messaging.Message) *MessageModel {
	m := &MessageModel{}
	m.FromDomain(msg)
	return m
}

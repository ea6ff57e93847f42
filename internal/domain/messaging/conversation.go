package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/shared"
)

// Conversation is a direct-message thread between exactly two users.
// The participant pair is stored normalized (A sorts before B by UUID
// string) so one row exists per pair regardless of who started it, and
// a unique index on the pair can enforce that.
type Conversation struct {
	shared.BaseAggregateRoot
	ParticipantA uuid.UUID
	ParticipantB uuid.UUID
	// ListingID optionally records the listing the conversation started from
	ListingID *uuid.UUID
	// LastMessageBody is a denormalized preview of the newest message
	LastMessageBody string
	LastMessageAt   *time.Time
}

// previewLimit caps the denormalized message preview length
const previewLimit = 120

// NormalizePair orders two participant IDs into canonical (A, B) form
func NormalizePair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if x.String() > y.String() {
		return y, x
	}
	return x, y
}

// NewConversation creates a conversation between two distinct users
func NewConversation(x, y uuid.UUID) (*Conversation, error) {
	if x == uuid.Nil || y == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Participant ID cannot be empty")
	}
	if x == y {
		return nil, shared.NewDomainError("SELF_CONVERSATION", "Cannot start a conversation with yourself")
	}

	a, b := NormalizePair(x, y)
	return &Conversation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ParticipantA:      a,
		ParticipantB:      b,
	}, nil
}

// LinkListing records the listing this conversation started from
func (c *Conversation) LinkListing(listingID uuid.UUID) error {
	if listingID == uuid.Nil {
		return shared.NewDomainError("INVALID_LISTING", "Listing ID cannot be empty")
	}

	c.ListingID = &listingID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// HasParticipant returns true if the user is part of this conversation
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the counterpart of the given user.
// The second return value is false when the user is not a participant.
func (c *Conversation) OtherParticipant(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB, true
	case c.ParticipantB:
		return c.ParticipantA, true
	}
	return uuid.Nil, false
}

// TouchLastMessage records the newest message's preview and timestamp
func (c *Conversation) TouchLastMessage(body string, at time.Time) {
	if runes := []rune(body); len(runes) > previewLimit {
		body = string(runes[:previewLimit])
	}
	c.LastMessageBody = body
	c.LastMessageAt = &at
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

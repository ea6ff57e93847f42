package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/messaging"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/rethread/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormConversationRepository implements messaging.ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// Create creates a new conversation. Returns shared.ErrAlreadyExists
// when the participant pair already has a conversation, so the caller
// can re-read the row that won the race.
func (r *GormConversationRepository) Create(ctx context.Context, conversation *messaging.Conversation) error {
	model := models.ConversationModelFromDomain(conversation)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing conversation
func (r *GormConversationRepository) Update(ctx context.Context, conversation *messaging.Conversation) error {
	model := models.ConversationModelFromDomain(conversation)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a conversation by ID
func (r *GormConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	var model models.ConversationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPair finds the conversation for a normalized participant pair
func (r *GormConversationRepository) FindByPair(ctx context.Context, participantA, participantB uuid.UUID) (*messaging.Conversation, error) {
	var model models.ConversationModel
	if err := r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", participantA, participantB).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByParticipant returns all conversations a user takes part in,
// most recently active first
func (r *GormConversationRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*messaging.Conversation, error) {
	var conversationModels []*models.ConversationModel
	if err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at desc NULLS LAST").
		Find(&conversationModels).Error; err != nil {
		return nil, err
	}

	conversations := make([]*messaging.Conversation, len(conversationModels))
	for i, model := range conversationModels {
		conversations[i] = model.ToDomain()
	}

	return conversations, nil
}

var _ messaging.ConversationRepository = (*GormConversationRepository)(nil)

// GormMessageRepository implements messaging.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create creates a new message
func (r *GormMessageRepository) Create(ctx context.Context, message *messaging.Message) error {
	model := models.MessageModelFromDomain(message)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing message
func (r *GormMessageRepository) Update(ctx context.Context, message *messaging.Message) error {
	model := models.MessageModelFromDomain(message)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByConversation returns messages of a conversation, oldest first
func (r *GormMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]*messaging.Message, int64, error) {
	var messageModels []*models.MessageModel
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("conversation_id = ?", conversationID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at asc").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&messageModels).Error; err != nil {
		return nil, 0, err
	}

	messages := make([]*messaging.Message, len(messageModels))
	for i, model := range messageModels {
		messages[i] = model.ToDomain()
	}

	return messages, total, nil
}

// MarkConversationRead marks all messages sent to the reader in a
// conversation as read
func (r *GormMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", now).Error
}

// CountUnread counts unread messages addressed to a user across all conversations
func (r *GormMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.participant_a = ? OR conversations.participant_b = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnreadInConversation counts unread messages addressed to a user within one conversation
func (r *GormMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("conversation_id = ?", conversationID).
		Where("sender_id <> ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ messaging.MessageRepository = (*GormMessageRepository)(nil)

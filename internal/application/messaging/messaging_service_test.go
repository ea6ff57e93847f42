package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/messaging"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockConversationRepository mocks messaging.ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Create(ctx context.Context, conversation *messaging.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) Update(ctx context.Context, conversation *messaging.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Conversation), args.Error(1)
}

func (m *MockConversationRepository) FindByPair(ctx context.Context, participantA, participantB uuid.UUID) (*messaging.Conversation, error) {
	args := m.Called(ctx, participantA, participantB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Conversation), args.Error(1)
}

func (m *MockConversationRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*messaging.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messaging.Conversation), args.Error(1)
}

// MockMessageRepository mocks messaging.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *messaging.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) Update(ctx context.Context, message *messaging.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]*messaging.Message, int64, error) {
	args := m.Called(ctx, conversationID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*messaging.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestMessagingService() (*MessagingService, *MockConversationRepository, *MockMessageRepository) {
	conversationRepo := new(MockConversationRepository)
	messageRepo := new(MockMessageRepository)
	svc := NewMessagingService(conversationRepo, messageRepo, zap.NewNop())
	return svc, conversationRepo, messageRepo
}

func TestMessagingService_SendMessage(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	a, b := messaging.NormalizePair(alice, bob)

	t.Run("first contact creates the conversation", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()

		conversationRepo.On("FindByPair", ctx, a, b).Return(nil, shared.ErrNotFound)
		conversationRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Conversation")).Return(nil)
		conversationRepo.On("Update", ctx, mock.AnythingOfType("*messaging.Conversation")).Return(nil)
		messageRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Message")).Return(nil)

		resp, err := svc.SendMessage(ctx, SendMessageInput{
			SenderID:    alice,
			RecipientID: bob,
			Body:        "Is the linen batch still available?",
		})

		require.NoError(t, err)
		assert.Equal(t, alice, resp.SenderID)
		assert.Equal(t, "Is the linen batch still available?", resp.Body)

		created := conversationRepo.Calls[1].Arguments.Get(1).(*messaging.Conversation)
		assert.Equal(t, a, created.ParticipantA)
		assert.Equal(t, b, created.ParticipantB)
		require.NotNil(t, created.LastMessageAt)
		assert.Equal(t, "Is the linen batch still available?", created.LastMessageBody)
	})

	t.Run("reply reuses the existing conversation regardless of direction", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()
		conversation, err := messaging.NewConversation(alice, bob)
		require.NoError(t, err)

		conversationRepo.On("FindByPair", ctx, a, b).Return(conversation, nil)
		conversationRepo.On("Update", ctx, conversation).Return(nil)
		messageRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Message")).Return(nil)

		resp, err := svc.SendMessage(ctx, SendMessageInput{
			SenderID:    bob,
			RecipientID: alice,
			Body:        "Yes, about two kilos left.",
		})

		require.NoError(t, err)
		assert.Equal(t, conversation.ID, resp.ConversationID)
		conversationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost creation race re-reads the winner", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()
		winner, err := messaging.NewConversation(alice, bob)
		require.NoError(t, err)

		conversationRepo.On("FindByPair", ctx, a, b).Return(nil, shared.ErrNotFound).Once()
		conversationRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Conversation")).Return(shared.ErrAlreadyExists)
		conversationRepo.On("FindByPair", ctx, a, b).Return(winner, nil).Once()
		conversationRepo.On("Update", ctx, winner).Return(nil)
		messageRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Message")).Return(nil)

		resp, err := svc.SendMessage(ctx, SendMessageInput{
			SenderID:    alice,
			RecipientID: bob,
			Body:        "Hello again",
		})

		require.NoError(t, err)
		assert.Equal(t, winner.ID, resp.ConversationID)
	})

	t.Run("first contact can link a listing", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()
		listingID := uuid.New()

		conversationRepo.On("FindByPair", ctx, a, b).Return(nil, shared.ErrNotFound)
		conversationRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Conversation")).Return(nil)
		conversationRepo.On("Update", ctx, mock.AnythingOfType("*messaging.Conversation")).Return(nil)
		messageRepo.On("Create", ctx, mock.AnythingOfType("*messaging.Message")).Return(nil)

		_, err := svc.SendMessage(ctx, SendMessageInput{
			SenderID:    alice,
			RecipientID: bob,
			Body:        "Asking about your denim offcuts",
			ListingID:   &listingID,
		})

		require.NoError(t, err)
		created := conversationRepo.Calls[1].Arguments.Get(1).(*messaging.Conversation)
		require.NotNil(t, created.ListingID)
		assert.Equal(t, listingID, *created.ListingID)
	})

	t.Run("messaging yourself is rejected", func(t *testing.T) {
		svc, conversationRepo, _ := newTestMessagingService()
		conversationRepo.On("FindByPair", ctx, alice, alice).Return(nil, shared.ErrNotFound)

		_, err := svc.SendMessage(ctx, SendMessageInput{
			SenderID:    alice,
			RecipientID: alice,
			Body:        "note to self",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "yourself")
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()
		conversation, err := messaging.NewConversation(alice, bob)
		require.NoError(t, err)
		conversationRepo.On("FindByPair", ctx, a, b).Return(conversation, nil)

		_, err = svc.SendMessage(ctx, SendMessageInput{
			SenderID:    alice,
			RecipientID: bob,
			Body:        "   ",
		})

		require.Error(t, err)
		messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestMessagingService_ListConversations(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	svc, conversationRepo, messageRepo := newTestMessagingService()

	withBob, err := messaging.NewConversation(alice, bob)
	require.NoError(t, err)
	withBob.TouchLastMessage("any fabric left?", time.Now())
	withCarol, err := messaging.NewConversation(alice, carol)
	require.NoError(t, err)

	conversationRepo.On("FindByParticipant", ctx, alice).Return([]*messaging.Conversation{withBob, withCarol}, nil)
	messageRepo.On("CountUnreadInConversation", ctx, withBob.ID, alice).Return(int64(3), nil)
	messageRepo.On("CountUnreadInConversation", ctx, withCarol.ID, alice).Return(int64(0), nil)

	conversations, err := svc.ListConversations(ctx, alice)

	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, bob, conversations[0].OtherUserID)
	assert.Equal(t, int64(3), conversations[0].UnreadCount)
	assert.NotNil(t, conversations[0].LastMessageAt)
	assert.Equal(t, "any fabric left?", conversations[0].LastMessage)
	assert.Equal(t, carol, conversations[1].OtherUserID)
	assert.Equal(t, int64(0), conversations[1].UnreadCount)
}

func TestMessagingService_ListMessages(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	mallory := uuid.New()

	conversation, err := messaging.NewConversation(alice, bob)
	require.NoError(t, err)

	t.Run("participant reads messages and they are marked read", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()
		filter := shared.DefaultFilter()

		first, err := messaging.NewMessage(conversation.ID, alice, "Any wool scraps?")
		require.NoError(t, err)
		second, err := messaging.NewMessage(conversation.ID, bob, "Plenty, come by Saturday")
		require.NoError(t, err)

		conversationRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)
		messageRepo.On("FindByConversation", ctx, conversation.ID, filter).
			Return([]*messaging.Message{first, second}, int64(2), nil)
		messageRepo.On("MarkConversationRead", ctx, conversation.ID, alice).Return(nil)

		page, err := svc.ListMessages(ctx, conversation.ID, alice, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Any wool scraps?", page.Items[0].Body)
		messageRepo.AssertCalled(t, "MarkConversationRead", ctx, conversation.ID, alice)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		svc, conversationRepo, messageRepo := newTestMessagingService()
		conversationRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)

		_, err := svc.ListMessages(ctx, conversation.ID, mallory, shared.DefaultFilter())

		assert.ErrorIs(t, err, shared.ErrForbidden)
		messageRepo.AssertNotCalled(t, "FindByConversation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		svc, conversationRepo, _ := newTestMessagingService()
		missing := uuid.New()
		conversationRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.ListMessages(ctx, missing, alice, shared.DefaultFilter())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMessagingService_CountUnread(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()

	svc, _, messageRepo := newTestMessagingService()
	messageRepo.On("CountUnread", ctx, alice).Return(int64(5), nil)

	count, err := svc.CountUnread(ctx, alice)

	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

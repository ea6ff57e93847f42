package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/messaging"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/rethread/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMessagingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ConversationModel{}, &models.MessageModel{})
	require.NoError(t, err)

	return db
}

func TestGormConversationRepository_Create(t *testing.T) {
	db := setupMessagingTestDB(t)
	repo := NewGormConversationRepository(db)
	ctx := context.Background()

	x := uuid.New()
	y := uuid.New()

	t.Run("creates conversation", func(t *testing.T) {
		c, err := messaging.NewConversation(x, y)
		require.NoError(t, err)

		require.NoError(t, repo.Create(ctx, c))

		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ParticipantA, found.ParticipantA)
		assert.Equal(t, c.ParticipantB, found.ParticipantB)
	})

	t.Run("second conversation for same pair hits the unique index", func(t *testing.T) {
		dup, err := messaging.NewConversation(y, x)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})
}

func TestGormConversationRepository_FindByPair(t *testing.T) {
	db := setupMessagingTestDB(t)
	repo := NewGormConversationRepository(db)
	ctx := context.Background()

	x := uuid.New()
	y := uuid.New()
	c, err := messaging.NewConversation(x, y)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))

	a, b := messaging.NormalizePair(x, y)
	found, err := repo.FindByPair(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = repo.FindByPair(ctx, uuid.New(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormConversationRepository_FindByParticipant(t *testing.T) {
	db := setupMessagingTestDB(t)
	repo := NewGormConversationRepository(db)
	ctx := context.Background()

	me := uuid.New()

	c1, err := messaging.NewConversation(me, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c1))

	c2, err := messaging.NewConversation(uuid.New(), me)
	require.NoError(t, err)
	c2.TouchLastMessage("see you then", time.Now())
	require.NoError(t, repo.Create(ctx, c2))

	notMine, err := messaging.NewConversation(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, notMine))

	mine, err := repo.FindByParticipant(ctx, me)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// The conversation with activity sorts first.
	assert.Equal(t, c2.ID, mine[0].ID)
}

func TestGormMessageRepository(t *testing.T) {
	db := setupMessagingTestDB(t)
	convRepo := NewGormConversationRepository(db)
	msgRepo := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	c, err := messaging.NewConversation(alice, bob)
	require.NoError(t, err)
	require.NoError(t, convRepo.Create(ctx, c))

	m1, err := messaging.NewMessage(c.ID, alice, "Is the denim still available?")
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, m1))

	m2, err := messaging.NewMessage(c.ID, bob, "Yes, come pick it up")
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, m2))

	t.Run("lists messages oldest first", func(t *testing.T) {
		msgs, total, err := msgRepo.FindByConversation(ctx, c.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, msgs, 2)
		assert.Equal(t, m1.ID, msgs[0].ID)
		assert.Equal(t, m2.ID, msgs[1].ID)
	})

	t.Run("counts unread for recipient", func(t *testing.T) {
		count, err := msgRepo.CountUnread(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = msgRepo.CountUnread(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("marks conversation read for one side only", func(t *testing.T) {
		require.NoError(t, msgRepo.MarkConversationRead(ctx, c.ID, bob))

		count, err := msgRepo.CountUnread(ctx, bob)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		// Alice still has Bob's reply unread.
		count, err = msgRepo.CountUnread(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

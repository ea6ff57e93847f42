package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rethread/backend/internal/domain/identity"
	"github.com/rethread/backend/internal/domain/shared"
	"github.com/rethread/backend/internal/infrastructure/auth"
	"github.com/rethread/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "rethread-test",
		MaxRefreshCount:        3,
	})
}

func newTestAuthService() (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	repo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(repo, newTestJWTService(), blacklist, zap.NewNop())
	return svc, repo, blacklist
}

func newTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("maker@example.com", "sewing123", "Maker")
	require.NoError(t, err)
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and signs in", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		repo.On("ExistsByEmail", ctx, "maker@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := svc.Register(ctx, RegisterInput{
			Email:       "Maker@Example.com",
			Password:    "sewing123",
			DisplayName: "Maker",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "maker@example.com", result.User.Email)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		repo.On("ExistsByEmail", ctx, "maker@example.com").Return(true, nil)

		_, err := svc.Register(ctx, RegisterInput{
			Email:       "maker@example.com",
			Password:    "sewing123",
			DisplayName: "Maker",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("maps create race to duplicate email", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		repo.On("ExistsByEmail", ctx, "maker@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(shared.ErrAlreadyExists)

		_, err := svc.Register(ctx, RegisterInput{
			Email:       "maker@example.com",
			Password:    "sewing123",
			DisplayName: "Maker",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects weak password", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.Register(ctx, RegisterInput{
			Email:       "maker@example.com",
			Password:    "short",
			DisplayName: "Maker",
		})

		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		repo.On("FindByEmail", ctx, "maker@example.com").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		result, err := svc.Login(ctx, LoginInput{
			Email:    "maker@example.com",
			Password: "sewing123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		repo.On("FindByEmail", ctx, "maker@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "maker@example.com", Password: "wrongpass1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email or password")
	})

	t.Run("disabled account", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		require.NoError(t, user.Disable())
		repo.On("FindByEmail", ctx, "maker@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "maker@example.com", Password: "sewing123"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc *AuthService, repo *MockUserRepository, user *identity.User) *LoginResult {
		t.Helper()
		repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)
		result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "sewing123"})
		require.NoError(t, err)
		return result
	}

	t.Run("rotates the pair", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		loginResult := login(t, svc, repo, user)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		result, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: loginResult.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEqual(t, loginResult.RefreshToken, result.RefreshToken)
	})

	t.Run("rotated token cannot be replayed", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		loginResult := login(t, svc, repo, user)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: loginResult.RefreshToken})
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: loginResult.RefreshToken})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "revoked")
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "not-a-token"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid refresh token")
	})

	t.Run("disabled account rejected", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		loginResult := login(t, svc, repo, user)
		require.NoError(t, user.Disable())
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: loginResult.RefreshToken})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, repo, blacklist := newTestAuthService()
	user := newTestUser(t)
	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)

	loginResult, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "sewing123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, LogoutInput{
		AccessToken:  loginResult.AccessToken,
		RefreshToken: loginResult.RefreshToken,
	}))

	// The refresh token is now revoked
	_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: loginResult.RefreshToken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
	assert.NotNil(t, blacklist)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password and revokes tokens", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		err := svc.ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "sewing123",
			NewPassword: "quilting456",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("quilting456"))
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc, repo, _ := newTestAuthService()
		user := newTestUser(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		err := svc.ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "wrongpass1",
			NewPassword: "quilting456",
		})

		assert.Error(t, err)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAuthService()
	user := newTestUser(t)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)

	bio := "I collect denim offcuts"
	location := "Hamburg"
	info, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:       user.ID,
		Bio:          &bio,
		LocationName: &location,
	})

	require.NoError(t, err)
	assert.Equal(t, "I collect denim offcuts", info.Bio)
	assert.Equal(t, "Hamburg", info.LocationName)
	assert.Equal(t, "Maker", info.DisplayName)
}

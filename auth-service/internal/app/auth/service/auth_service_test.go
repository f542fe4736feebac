package service

import (
	"context"
	"testing"
	"time"

	"mistrytech/auth-service/internal/app/auth/entity"
	"mistrytech/auth-service/internal/app/auth/repository"
	"mistrytech/auth-service/internal/app/auth/repository/mocks"
	"mistrytech/auth-service/internal/app/auth/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testDeps struct {
	userRepo  *mocks.MockUserRepository
	tokenRepo *mocks.MockTokenRepository
	jwt       *util.JWTManager
}

func newTestService() (*AuthService, *testDeps) {
	deps := &testDeps{
		userRepo:  new(mocks.MockUserRepository),
		tokenRepo: new(mocks.MockTokenRepository),
		jwt:       util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour),
	}
	return NewAuthService(deps.userRepo, deps.tokenRepo, deps.jwt), deps
}

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = 1
			user.CreatedAt = time.Now()
		}).
		Return(nil)
	deps.tokenRepo.On("SaveRefreshToken", mock.Anything, int64(1), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil)

	req := &entity.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "strongpassword",
	}

	// Act
	resp, err := svc.Register(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.Tokens.ExpiresIn)

	// Пароль захэширован, а не сохранен открытым текстом
	createdUser := deps.userRepo.Calls[0].Arguments.Get(1).(*entity.User)
	assert.NotEqual(t, "strongpassword", createdUser.PasswordHash)
	assert.True(t, util.CheckPassword("strongpassword", createdUser.PasswordHash))
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	req := &entity.RegisterRequest{
		Username: "newuser",
		Email:    "taken@example.com",
		Password: "strongpassword",
	}

	// Act
	resp, err := svc.Register(context.Background(), req)

	// Assert
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, resp)
	deps.tokenRepo.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrUsernameTaken)

	req := &entity.RegisterRequest{
		Username: "taken",
		Email:    "new@example.com",
		Password: "strongpassword",
	}

	// Act
	_, err := svc.Register(context.Background(), req)

	// Assert
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	hash, _ := util.HashPassword("correctpassword")
	user := &entity.User{ID: 5, Email: "user@example.com", PasswordHash: hash, IsAdmin: true}

	deps.userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	deps.tokenRepo.On("SaveRefreshToken", mock.Anything, int64(5), mock.Anything, mock.Anything).Return(nil)

	// Act
	resp, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    "user@example.com",
		Password: "correctpassword",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.User.ID)

	// Access токен несет is_admin из профиля
	claims, err := deps.jwt.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	hash, _ := util.HashPassword("correctpassword")
	user := &entity.User{ID: 5, Email: "user@example.com", PasswordHash: hash}

	deps.userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	// Act
	resp, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    "user@example.com",
		Password: "wrongpassword",
	})

	// Assert
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, resp)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrUserNotFound)

	// Act
	_, err := svc.Login(context.Background(), &entity.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})

	// Assert - несуществующий email неотличим от неверного пароля
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshTokens_RotatesToken(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	stored := &entity.RefreshToken{
		UserID:    5,
		Token:     "old-refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := &entity.User{ID: 5, Email: "user@example.com"}

	deps.tokenRepo.On("GetRefreshToken", mock.Anything, "old-refresh-token").Return(stored, nil)
	deps.tokenRepo.On("DeleteRefreshToken", mock.Anything, "old-refresh-token").Return(nil)
	deps.userRepo.On("GetByID", mock.Anything, int64(5)).Return(user, nil)
	deps.tokenRepo.On("SaveRefreshToken", mock.Anything, int64(5), mock.Anything, mock.Anything).Return(nil)

	// Act
	pair, err := svc.RefreshTokens(context.Background(), "old-refresh-token")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, "old-refresh-token", pair.RefreshToken)

	// Использованный токен удален до выдачи нового
	deps.tokenRepo.AssertCalled(t, "DeleteRefreshToken", mock.Anything, "old-refresh-token")
}

func TestAuthService_RefreshTokens_UnknownToken(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.tokenRepo.On("GetRefreshToken", mock.Anything, "bogus").
		Return(nil, repository.ErrTokenNotFound)

	// Act
	pair, err := svc.RefreshTokens(context.Background(), "bogus")

	// Assert
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.Nil(t, pair)
	deps.tokenRepo.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

func TestAuthService_Logout_BlacklistsAccessToken(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	accessToken, err := deps.jwt.GenerateAccessToken(5, "user@example.com", false)
	require.NoError(t, err)

	deps.tokenRepo.On("AddToBlacklist", mock.Anything, accessToken, mock.AnythingOfType("time.Time")).Return(nil)
	deps.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, int64(5)).Return(nil)

	// Act
	err = svc.Logout(context.Background(), 5, accessToken)

	// Assert
	require.NoError(t, err)
	deps.tokenRepo.AssertExpectations(t)
}

func TestAuthService_Logout_InvalidTokenStillDeletesRefreshTokens(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, int64(5)).Return(nil)

	// Act - невалидный access токен не мешает logout
	err := svc.Logout(context.Background(), 5, "garbage-token")

	// Assert
	require.NoError(t, err)
	deps.tokenRepo.AssertNotCalled(t, "AddToBlacklist", mock.Anything, mock.Anything, mock.Anything)
	deps.tokenRepo.AssertCalled(t, "DeleteUserRefreshTokens", mock.Anything, int64(5))
}

func TestAuthService_ValidateToken_Success(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	accessToken, err := deps.jwt.GenerateAccessToken(7, "user@example.com", false)
	require.NoError(t, err)

	deps.tokenRepo.On("IsBlacklisted", mock.Anything, accessToken).Return(false, nil)

	// Act
	claims, err := svc.ValidateToken(context.Background(), accessToken)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestAuthService_ValidateToken_Blacklisted(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	accessToken, err := deps.jwt.GenerateAccessToken(7, "user@example.com", false)
	require.NoError(t, err)

	deps.tokenRepo.On("IsBlacklisted", mock.Anything, accessToken).Return(true, nil)

	// Act - подпись валидна, но после logout токен отозван
	claims, err := svc.ValidateToken(context.Background(), accessToken)

	// Assert
	assert.ErrorIs(t, err, util.ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestAuthService_GetCurrentUser_NotFound(t *testing.T) {
	// Arrange
	svc, deps := newTestService()

	deps.userRepo.On("GetByID", mock.Anything, int64(99)).
		Return(nil, repository.ErrUserNotFound)

	// Act
	user, err := svc.GetCurrentUser(context.Background(), int64(99))

	// Assert
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, user)
}

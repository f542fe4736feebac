package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenRepo(t *testing.T) (TokenRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTokenRepository(client), mr
}

func TestRedisTokenRepository_SaveAndGetRefreshToken(t *testing.T) {
	// Arrange
	repo, _ := newTestTokenRepo(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	// Act
	err := repo.SaveRefreshToken(ctx, 42, "some-refresh-token", expiresAt)
	require.NoError(t, err)

	stored, err := repo.GetRefreshToken(ctx, "some-refresh-token")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), stored.UserID)
	assert.Equal(t, "some-refresh-token", stored.Token)
	assert.WithinDuration(t, expiresAt, stored.ExpiresAt, 5*time.Second)
}

func TestRedisTokenRepository_SaveRefreshToken_AlreadyExpired(t *testing.T) {
	// Arrange
	repo, _ := newTestTokenRepo(t)

	// Act
	err := repo.SaveRefreshToken(context.Background(), 42, "token", time.Now().Add(-time.Minute))

	// Assert
	assert.Error(t, err)
}

func TestRedisTokenRepository_GetRefreshToken_NotFound(t *testing.T) {
	// Arrange
	repo, _ := newTestTokenRepo(t)

	// Act
	stored, err := repo.GetRefreshToken(context.Background(), "missing-token")

	// Assert
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Nil(t, stored)
}

func TestRedisTokenRepository_GetRefreshToken_ExpiresByTTL(t *testing.T) {
	// Arrange
	repo, mr := newTestTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRefreshToken(ctx, 42, "short-lived", time.Now().Add(time.Minute)))

	// Act - проматываем время в miniredis за TTL токена
	mr.FastForward(2 * time.Minute)

	stored, err := repo.GetRefreshToken(ctx, "short-lived")

	// Assert
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Nil(t, stored)
}

func TestRedisTokenRepository_DeleteRefreshToken(t *testing.T) {
	// Arrange
	repo, _ := newTestTokenRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRefreshToken(ctx, 42, "to-delete", time.Now().Add(time.Hour)))

	// Act
	err := repo.DeleteRefreshToken(ctx, "to-delete")

	// Assert
	require.NoError(t, err)
	_, err = repo.GetRefreshToken(ctx, "to-delete")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisTokenRepository_DeleteUserRefreshTokens(t *testing.T) {
	// Arrange - у пользователя несколько сессий, у другого своя
	repo, _ := newTestTokenRepo(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, repo.SaveRefreshToken(ctx, 42, "token-a", expiresAt))
	require.NoError(t, repo.SaveRefreshToken(ctx, 42, "token-b", expiresAt))
	require.NoError(t, repo.SaveRefreshToken(ctx, 43, "token-c", expiresAt))

	// Act
	err := repo.DeleteUserRefreshTokens(ctx, 42)

	// Assert
	require.NoError(t, err)

	_, err = repo.GetRefreshToken(ctx, "token-a")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = repo.GetRefreshToken(ctx, "token-b")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// Чужой токен не тронут
	stored, err := repo.GetRefreshToken(ctx, "token-c")
	require.NoError(t, err)
	assert.Equal(t, int64(43), stored.UserID)
}

func TestRedisTokenRepository_Blacklist(t *testing.T) {
	// Arrange
	repo, _ := newTestTokenRepo(t)
	ctx := context.Background()

	// Act
	err := repo.AddToBlacklist(ctx, "revoked-access-token", time.Now().Add(15*time.Minute))
	require.NoError(t, err)

	// Assert
	blacklisted, err := repo.IsBlacklisted(ctx, "revoked-access-token")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	other, err := repo.IsBlacklisted(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestRedisTokenRepository_Blacklist_ExpiredTokenSkipped(t *testing.T) {
	// Arrange - истекший access токен и так не пройдет валидацию
	repo, _ := newTestTokenRepo(t)
	ctx := context.Background()

	// Act
	err := repo.AddToBlacklist(ctx, "already-expired", time.Now().Add(-time.Minute))

	// Assert
	require.NoError(t, err)

	blacklisted, err := repo.IsBlacklisted(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

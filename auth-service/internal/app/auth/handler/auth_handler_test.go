package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mistrytech/auth-service/internal/app/auth/entity"
	"mistrytech/auth-service/internal/app/auth/repository"
	"mistrytech/auth-service/internal/app/auth/repository/mocks"
	"mistrytech/auth-service/internal/app/auth/service"
	"mistrytech/auth-service/internal/app/auth/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Токены живут в miniredis, пользователи - в моке. Так logout и refresh
// проходят через настоящую ротацию токенов
func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockUserRepository, *util.JWTManager) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	userRepo := new(mocks.MockUserRepository)
	tokenRepo := repository.NewRedisTokenRepository(redisClient)
	jwtManager := util.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	authService := service.NewAuthService(userRepo, tokenRepo, jwtManager)
	authHandler := NewAuthHandler(authService)
	authMiddleware := NewAuthMiddleware(authService)

	return SetupRoutes(authHandler, authMiddleware), userRepo, jwtManager
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register_Success(t *testing.T) {
	// Arrange
	router, userRepo, _ := setupTestRouter(t)

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = 1
		}).
		Return(nil)

	// Act
	w := doJSON(t, router, http.MethodPost, "/auth/register", entity.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "strongpassword",
	}, "")

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)

	var resp entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	// Arrange
	router, userRepo, _ := setupTestRouter(t)

	// Act
	w := doJSON(t, router, http.MethodPost, "/auth/register", entity.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "short",
	}, "")

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthHandler_Register_EmailConflict(t *testing.T) {
	// Arrange
	router, userRepo, _ := setupTestRouter(t)

	userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	// Act
	w := doJSON(t, router, http.MethodPost, "/auth/register", entity.RegisterRequest{
		Username: "newuser",
		Email:    "taken@example.com",
		Password: "strongpassword",
	}, "")

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	// Arrange
	router, userRepo, _ := setupTestRouter(t)

	hash, _ := util.HashPassword("correctpassword")
	userRepo.On("GetByEmail", mock.Anything, "user@example.com").
		Return(&entity.User{ID: 5, Email: "user@example.com", PasswordHash: hash}, nil)

	// Act
	w := doJSON(t, router, http.MethodPost, "/auth/login", entity.LoginRequest{
		Email:    "user@example.com",
		Password: "wrongpassword",
	}, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginRefreshFlow(t *testing.T) {
	// Arrange
	router, userRepo, _ := setupTestRouter(t)

	hash, _ := util.HashPassword("correctpassword")
	user := &entity.User{ID: 5, Email: "user@example.com", PasswordHash: hash}
	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, int64(5)).Return(user, nil)

	// Act - логинимся и обмениваем refresh токен
	w := doJSON(t, router, http.MethodPost, "/auth/login", entity.LoginRequest{
		Email:    "user@example.com",
		Password: "correctpassword",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))

	w = doJSON(t, router, http.MethodPost, "/auth/refresh", entity.RefreshRequest{
		RefreshToken: loginResp.Tokens.RefreshToken,
	}, "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	var pair entity.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEqual(t, loginResp.Tokens.RefreshToken, pair.RefreshToken)

	// Повторное использование старого refresh токена отклоняется
	w = doJSON(t, router, http.MethodPost, "/auth/refresh", entity.RefreshRequest{
		RefreshToken: loginResp.Tokens.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetMe(t *testing.T) {
	// Arrange
	router, userRepo, jwtManager := setupTestRouter(t)

	user := &entity.User{ID: 5, Username: "someone", Email: "user@example.com"}
	userRepo.On("GetByID", mock.Anything, int64(5)).Return(user, nil)

	token, err := jwtManager.GenerateAccessToken(5, "user@example.com", false)
	require.NoError(t, err)

	// Act
	w := doJSON(t, router, http.MethodGet, "/auth/me", nil, token)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	var got entity.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "someone", got.Username)
}

func TestAuthHandler_GetMe_NoToken(t *testing.T) {
	// Arrange
	router, _, _ := setupTestRouter(t)

	// Act
	w := doJSON(t, router, http.MethodGet, "/auth/me", nil, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_RevokesAccessToken(t *testing.T) {
	// Arrange
	router, userRepo, jwtManager := setupTestRouter(t)

	user := &entity.User{ID: 5, Email: "user@example.com"}
	userRepo.On("GetByID", mock.Anything, int64(5)).Return(user, nil)

	token, err := jwtManager.GenerateAccessToken(5, "user@example.com", false)
	require.NoError(t, err)

	// Act
	w := doJSON(t, router, http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// Assert - токен в черном списке, /me больше не пускает
	w = doJSON(t, router, http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_AdminUsers_ForbiddenForRegularUser(t *testing.T) {
	// Arrange
	router, _, jwtManager := setupTestRouter(t)

	token, err := jwtManager.GenerateAccessToken(5, "user@example.com", false)
	require.NoError(t, err)

	// Act
	w := doJSON(t, router, http.MethodGet, "/admin/users", nil, token)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_AdminUsers_Success(t *testing.T) {
	// Arrange
	router, userRepo, jwtManager := setupTestRouter(t)

	userRepo.On("List", mock.Anything).Return([]entity.User{
		{ID: 1, Username: "admin"},
		{ID: 2, Username: "customer"},
	}, nil)

	token, err := jwtManager.GenerateAccessToken(1, "admin@example.com", true)
	require.NoError(t, err)

	// Act
	w := doJSON(t, router, http.MethodGet, "/admin/users", nil, token)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestAuthHandler_Validate(t *testing.T) {
	// Arrange
	router, _, jwtManager := setupTestRouter(t)

	token, err := jwtManager.GenerateAccessToken(5, "user@example.com", false)
	require.NoError(t, err)

	// Act
	w := doJSON(t, router, http.MethodPost, "/auth/validate", entity.ValidateRequest{Token: token}, "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)

	w = doJSON(t, router, http.MethodPost, "/auth/validate", entity.ValidateRequest{Token: "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

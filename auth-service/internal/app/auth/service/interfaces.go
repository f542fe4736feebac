package service

import (
	"context"

	"mistrytech/auth-service/internal/app/auth/entity"
	"mistrytech/auth-service/internal/app/auth/util"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, userID int64, accessToken string) error
	ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error)
	GetCurrentUser(ctx context.Context, userID int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
}

package usecase

import (
	"context"
	"errors"

	authdomain "ingetin-backend/internal/auth/domain"
	authdto "ingetin-backend/internal/auth/dto"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthUsecase defines account, session and device registration logic
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// ValidateToken verifies an access token and loads its user
	ValidateToken(ctx context.Context, token string) (*authdomain.User, error)

	RegisterFCMToken(ctx context.Context, userID, token, deviceInfo string) error
	UnregisterFCMToken(ctx context.Context, userID, token string) error
}

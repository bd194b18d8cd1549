package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	authdomain "ingetin-backend/internal/auth/domain"
	authdto "ingetin-backend/internal/auth/dto"
	"ingetin-backend/internal/auth/repository"
	"ingetin-backend/pkg/config"
	"ingetin-backend/pkg/emailaddr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim. A token is only accepted where
// its kind is expected.
const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	fcmRepo  repository.FCMTokenRepository
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, fcmRepo repository.FCMTokenRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		fcmRepo:  fcmRepo,
		config:   cfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	email := emailaddr.Normalize(req.Email)
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &authdomain.User{
		Email:    email,
		Username: strings.TrimSpace(req.Username),
		Password: hashedPassword,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("[AuthUsecase] Registered user %s", user.ID)

	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, emailaddr.Normalize(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return u.generateTokens(ctx, user)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.parse(refreshToken, refreshTokenType)
	if err != nil {
		return nil, err
	}

	storedToken, err := u.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidToken
	}

	user, err := u.userFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	// Rotate: the presented refresh token is single-use.
	if err := u.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return u.userRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	claims, err := u.parse(tokenString, accessTokenType)
	if err != nil {
		return nil, err
	}
	return u.userFromClaims(ctx, claims)
}

func (u *authUsecase) RegisterFCMToken(ctx context.Context, userID, token, deviceInfo string) error {
	return u.fcmRepo.SaveToken(ctx, userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterFCMToken(ctx context.Context, userID, token string) error {
	return u.fcmRepo.DeleteUserToken(ctx, userID, token)
}

func (u *authUsecase) generateTokens(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()

	accessToken, err := u.sign(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"type":    accessTokenType,
		"exp":     now.Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.sign(jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"type":     refreshTokenType,
		"exp":      now.Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	err = u.userRepo.SaveRefreshToken(ctx, &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(u.config.JWTRefreshExpiry),
	})
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parse verifies the signature and expiry and that the token is of kind.
func (u *authUsecase) parse(tokenString, kind string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (u *authUsecase) userFromClaims(ctx context.Context, claims jwt.MapClaims) (*authdomain.User, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

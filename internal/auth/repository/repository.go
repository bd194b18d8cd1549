package repository

import (
	"context"
	"errors"

	authdomain "ingetin-backend/internal/auth/domain"
)

// ErrEmailExists is returned by Create when the email is already registered.
var ErrEmailExists = errors.New("email already exists")

// UserRepository defines the interface for account and session data access
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	// FindByEmails returns the registered users among emails
	FindByEmails(ctx context.Context, emails []string) ([]authdomain.User, error)
	SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// Models lists the tables owned by this package, for migrations.
func Models() []interface{} {
	return []interface{}{&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.FCMToken{}}
}

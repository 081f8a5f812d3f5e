package auth

import (
	"context"
	"errors"

	"backend/internal/models"
)

// ErrTokenNotFound is returned by TokenStore lookups for unknown token strings.
var ErrTokenNotFound = errors.New("token record not found")

// ErrUserNotFound is returned by UserStore lookups for unknown emails.
var ErrUserNotFound = errors.New("user not found")

// TokenStore is the persisted record of every issued token, queried by the
// full token string on each authenticated request. Implementations must keep
// a uniqueness index on the token string so the lookup stays near constant
// time.
type TokenStore interface {
	Save(ctx context.Context, token *models.Token) (*models.Token, error)
	FindByToken(ctx context.Context, tokenString string) (*models.Token, error)
	RevokeByToken(ctx context.Context, tokenString string) error
	DeleteByToken(ctx context.Context, tokenString string) error
}

// UserStore resolves login identities and their current authorities.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

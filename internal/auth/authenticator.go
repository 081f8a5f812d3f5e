package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Authenticator implements the login, refresh and logout flows on top of the
// codec and validator.
type Authenticator struct {
	users     UserStore
	tokens    TokenStore
	codec     *Codec
	validator *Validator
}

func NewAuthenticator(users UserStore, tokens TokenStore, codec *Codec, validator *Validator) *Authenticator {
	return &Authenticator{users: users, tokens: tokens, codec: codec, validator: validator}
}

// Login verifies the credentials and issues a fresh access/refresh pair. The
// access token carries the user's authorities as of this moment.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrCredentialsInvalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrCredentialsInvalid
	}

	access, err := a.codec.IssueAccessToken(ctx, user.Email, user.Authorities())
	if err != nil {
		return nil, err
	}
	refresh, err := a.codec.IssueRefreshToken(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh redeems a still-valid refresh token for a new access token. The
// subject's authorities are re-read from the user store because refresh
// tokens deliberately carry none. The refresh token itself is not rotated.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.validator.Validate(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !claims.IsRefresh() {
		return "", ErrWrongTokenType
	}

	user, err := a.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrCredentialsInvalid
		}
		return "", err
	}

	return a.codec.IssueAccessToken(ctx, user.Email, user.Authorities())
}

// Logout revokes the presented token's record. Revocation is monotonic; a
// revoked record is never un-revoked.
func (a *Authenticator) Logout(ctx context.Context, tokenString string) error {
	if _, err := a.validator.Validate(ctx, tokenString); err != nil {
		return err
	}
	return a.tokens.RevokeByToken(ctx, tokenString)
}

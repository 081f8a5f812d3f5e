package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"backend/internal/models"
)

// Codec signs and decodes tokens. It owns the shared HMAC-SHA256 secret and
// the claim schema, and records every issuance in the token store.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokens     TokenStore
}

func NewCodec(secret, issuer string, accessTTL, refreshTTL time.Duration, tokens TokenStore) *Codec {
	return &Codec{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokens:     tokens,
	}
}

// IssueAccessToken signs a short-lived access token carrying the given
// authorities comma-joined, order preserved, and persists its record.
func (c *Codec) IssueAccessToken(ctx context.Context, subject string, authorities []string) (string, error) {
	return c.issue(ctx, TypeAccess, subject, strings.Join(authorities, ","), c.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token with no authorities
// claim and persists its record.
func (c *Codec) IssueRefreshToken(ctx context.Context, subject string) (string, error) {
	return c.issue(ctx, TypeRefresh, subject, "", c.refreshTTL)
}

func (c *Codec) issue(ctx context.Context, tokenType, subject, authorities string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Type:        tokenType,
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	record := &models.Token{
		Token:          signed,
		Subject:        subject,
		IsRefreshToken: tokenType == TypeRefresh,
		IsRevoked:      false,
		IssuedAt:       now,
		ExpiresAt:      now.Add(ttl),
	}
	if _, err := c.tokens.Save(ctx, record); err != nil {
		return "", fmt.Errorf("persist token record: %w", err)
	}

	return signed, nil
}

// Decode verifies the signature, issuer and validity window, and returns the
// claim set. It does not consult the token store; revocation is the
// validator's job.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrIssuerMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}
	return claims, nil
}

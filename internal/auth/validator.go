package auth

import (
	"context"
	"errors"
)

// Validator produces the single pass/fail verdict for a presented token:
// cryptographic verification via the codec plus a revocation lookup in the
// token store. A token with a missing record is treated the same as a
// revoked one.
type Validator struct {
	codec  *Codec
	tokens TokenStore
}

func NewValidator(codec *Codec, tokens TokenStore) *Validator {
	return &Validator{codec: codec, tokens: tokens}
}

// Validate returns the decoded claims when the token is genuine, unexpired
// and not revoked. Every verification failure wraps ErrTokenInvalid; callers
// inspect claims.Type themselves, so "not a refresh token" never gets
// conflated with "not a valid token".
func (v *Validator) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := v.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	record, err := v.tokens.FindByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrRevoked
		}
		return nil, err
	}
	if record.IsRevoked {
		return nil, ErrRevoked
	}

	return claims, nil
}

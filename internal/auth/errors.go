package auth

import (
	"errors"
	"fmt"
)

// ErrTokenInvalid is the umbrella verdict for every verification failure.
// Callers reject on it without caring which check failed; the wrapped kind
// below tells the log which one did.
var ErrTokenInvalid = errors.New("token invalid, not authorized")

var (
	ErrSignatureInvalid = fmt.Errorf("%w: signature does not match", ErrTokenInvalid)
	ErrIssuerMismatch   = fmt.Errorf("%w: unexpected issuer", ErrTokenInvalid)
	ErrExpired          = fmt.Errorf("%w: token expired", ErrTokenInvalid)
	ErrRevoked          = fmt.Errorf("%w: token revoked", ErrTokenInvalid)
)

var (
	// ErrWrongTokenType means a structurally valid token of the wrong kind was
	// presented, e.g. an access token at the refresh endpoint.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrCredentialsInvalid covers both unknown email and bad password so the
	// login response cannot be used to probe which one it was.
	ErrCredentialsInvalid = errors.New("invalid credentials")
)

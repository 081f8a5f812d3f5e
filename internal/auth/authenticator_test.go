package auth

import (
	"context"
	"errors"
	"testing"

	"backend/internal/models"
)

func newTestAuthenticator(users *memUserStore) (*Authenticator, *memTokenStore, *Codec) {
	tokens := newMemTokenStore()
	codec := newTestCodec(tokens)
	validator := NewValidator(codec, tokens)
	return NewAuthenticator(users, tokens, codec, validator), tokens, codec
}

func TestLoginIssuesDistinctPair(t *testing.T) {
	users := newMemUserStore(newTestUser("alice@example.com", models.RoleProfessor, "s3cret"))
	authenticator, _, codec := newTestAuthenticator(users)

	pair, err := authenticator.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected two non-empty tokens, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("expected access and refresh tokens to differ")
	}

	access, err := codec.Decode(pair.AccessToken)
	if err != nil {
		t.Fatalf("decoding access token failed: %v", err)
	}
	if access.Type != TypeAccess {
		t.Fatalf("expected access token type %s, got %s", TypeAccess, access.Type)
	}
	if got := access.AuthorityList(); len(got) != 1 || got[0] != "ROLE_PROFESSOR" {
		t.Fatalf("expected authorities [ROLE_PROFESSOR], got %v", got)
	}

	refresh, err := codec.Decode(pair.RefreshToken)
	if err != nil {
		t.Fatalf("decoding refresh token failed: %v", err)
	}
	if refresh.Type != TypeRefresh {
		t.Fatalf("expected refresh token type %s, got %s", TypeRefresh, refresh.Type)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMemUserStore(newTestUser("alice@example.com", models.RoleProfessor, "s3cret"))
	authenticator, _, _ := newTestAuthenticator(users)

	if _, err := authenticator.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	authenticator, _, _ := newTestAuthenticator(newMemUserStore())

	if _, err := authenticator.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	users := newMemUserStore(newTestUser("alice@example.com", models.RoleStudent, "s3cret"))
	authenticator, _, codec := newTestAuthenticator(users)

	pair, err := authenticator.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	access, err := authenticator.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	claims, err := codec.Decode(access)
	if err != nil {
		t.Fatalf("decoding refreshed access token failed: %v", err)
	}
	if claims.Type != TypeAccess {
		t.Fatalf("expected type %s, got %s", TypeAccess, claims.Type)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %s", claims.Subject)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := newMemUserStore(newTestUser("alice@example.com", models.RoleStudent, "s3cret"))
	authenticator, _, _ := newTestAuthenticator(users)

	pair, err := authenticator.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := authenticator.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestRefreshRederivesAuthorities(t *testing.T) {
	user := newTestUser("alice@example.com", models.RoleStudent, "s3cret")
	users := newMemUserStore(user)
	authenticator, _, codec := newTestAuthenticator(users)

	pair, err := authenticator.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Role changed after login; the refreshed access token must carry the
	// current authorities, not those embedded at login time.
	user.Role = models.RoleProfessor

	access, err := authenticator.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	claims, err := codec.Decode(access)
	if err != nil {
		t.Fatalf("decoding refreshed access token failed: %v", err)
	}
	if got := claims.AuthorityList(); len(got) != 1 || got[0] != "ROLE_PROFESSOR" {
		t.Fatalf("expected re-derived authorities [ROLE_PROFESSOR], got %v", got)
	}
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	users := newMemUserStore(newTestUser("alice@example.com", models.RoleStudent, "s3cret"))
	authenticator, tokens, _ := newTestAuthenticator(users)

	pair, err := authenticator.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := tokens.RevokeByToken(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("RevokeByToken returned error: %v", err)
	}

	if _, err := authenticator.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	users := newMemUserStore(newTestUser("alice@example.com", models.RoleStudent, "s3cret"))
	authenticator, tokens, codec := newTestAuthenticator(users)

	pair, err := authenticator.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := authenticator.Logout(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	validator := NewValidator(codec, tokens)
	if _, err := validator.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked after logout, got %v", err)
	}
}

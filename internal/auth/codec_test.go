package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

const (
	testSecret = "test-secret"
	testIssuer = "professor-app"
)

func newTestCodec(tokens TokenStore) *Codec {
	return NewCodec(testSecret, testIssuer, time.Hour, 7*24*time.Hour, tokens)
}

func TestIssueAccessTokenRoundTrip(t *testing.T) {
	tokens := newMemTokenStore()
	codec := newTestCodec(tokens)

	authorities := []string{"ROLE_ADMIN", "ROLE_PROFESSOR"}
	signed, err := codec.IssueAccessToken(context.Background(), "alice@example.com", authorities)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}
	if signed == "" {
		t.Fatal("expected non-empty token string")
	}

	claims, err := codec.Decode(signed)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %s", claims.Subject)
	}
	if claims.Type != TypeAccess {
		t.Fatalf("expected type %s, got %s", TypeAccess, claims.Type)
	}
	if claims.Issuer != testIssuer {
		t.Fatalf("expected issuer %s, got %s", testIssuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected non-empty jti")
	}

	got := claims.AuthorityList()
	if len(got) != len(authorities) {
		t.Fatalf("expected %d authorities, got %v", len(authorities), got)
	}
	for i := range authorities {
		if got[i] != authorities[i] {
			t.Fatalf("authority order not preserved: expected %v, got %v", authorities, got)
		}
	}
}

func TestIssueAccessTokenPersistsRecord(t *testing.T) {
	tokens := newMemTokenStore()
	codec := newTestCodec(tokens)

	signed, err := codec.IssueAccessToken(context.Background(), "alice@example.com", []string{"ROLE_STUDENT"})
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	record, err := tokens.FindByToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("expected persisted record, got error: %v", err)
	}
	if record.Subject != "alice@example.com" {
		t.Fatalf("expected record subject alice@example.com, got %s", record.Subject)
	}
	if record.IsRefreshToken {
		t.Fatal("access token record must not be flagged as refresh")
	}
	if record.IsRevoked {
		t.Fatal("fresh record must not be revoked")
	}
	if record.ID.IsZero() {
		t.Fatal("expected record id to be assigned")
	}
	if !record.ExpiresAt.After(record.IssuedAt) {
		t.Fatalf("expected expiresAt > issuedAt, got %v <= %v", record.ExpiresAt, record.IssuedAt)
	}
}

func TestIssueRefreshTokenCarriesNoAuthorities(t *testing.T) {
	tokens := newMemTokenStore()
	codec := newTestCodec(tokens)

	signed, err := codec.IssueRefreshToken(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken returned error: %v", err)
	}

	claims, err := codec.Decode(signed)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims.Type != TypeRefresh {
		t.Fatalf("expected type %s, got %s", TypeRefresh, claims.Type)
	}
	if !claims.IsRefresh() {
		t.Fatal("expected IsRefresh to be true")
	}
	if claims.Authorities != "" {
		t.Fatalf("refresh token must carry no authorities, got %q", claims.Authorities)
	}

	record, err := tokens.FindByToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("expected persisted record, got error: %v", err)
	}
	if !record.IsRefreshToken {
		t.Fatal("refresh token record must be flagged as refresh")
	}
}

func TestIssuedTokensHaveUniqueJTI(t *testing.T) {
	tokens := newMemTokenStore()
	codec := newTestCodec(tokens)

	first, err := codec.IssueAccessToken(context.Background(), "alice@example.com", []string{"ROLE_ADMIN"})
	if err != nil {
		t.Fatalf("first issuance failed: %v", err)
	}
	second, err := codec.IssueAccessToken(context.Background(), "alice@example.com", []string{"ROLE_ADMIN"})
	if err != nil {
		t.Fatalf("second issuance failed: %v", err)
	}
	if first == second {
		t.Fatal("expected two issuances to produce distinct token strings")
	}

	a, _ := codec.Decode(first)
	b, _ := codec.Decode(second)
	if a.ID == b.ID {
		t.Fatalf("expected distinct jti values, both were %s", a.ID)
	}
}

func TestDecodeExpired(t *testing.T) {
	tokens := newMemTokenStore()
	codec := NewCodec(testSecret, testIssuer, -time.Minute, 7*24*time.Hour, tokens)

	signed, err := codec.IssueAccessToken(context.Background(), "alice@example.com", []string{"ROLE_ADMIN"})
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	_, err = codec.Decode(signed)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrExpired to wrap ErrTokenInvalid, got %v", err)
	}
}

func TestDecodeIssuerMismatch(t *testing.T) {
	tokens := newMemTokenStore()
	other := NewCodec(testSecret, "someone-else", time.Hour, 7*24*time.Hour, tokens)

	signed, err := other.IssueAccessToken(context.Background(), "alice@example.com", []string{"ROLE_ADMIN"})
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	codec := newTestCodec(tokens)
	if _, err := codec.Decode(signed); !errors.Is(err, ErrIssuerMismatch) {
		t.Fatalf("expected ErrIssuerMismatch, got %v", err)
	}
}

func TestDecodeTamperedSignature(t *testing.T) {
	tokens := newMemTokenStore()
	forged := NewCodec("another-secret", testIssuer, time.Hour, 7*24*time.Hour, tokens)

	signed, err := forged.IssueAccessToken(context.Background(), "alice@example.com", []string{"ROLE_ADMIN"})
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	codec := newTestCodec(tokens)
	if _, err := codec.Decode(signed); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	codec := newTestCodec(newMemTokenStore())

	if _, err := codec.Decode("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/auth"
	"backend/internal/models"
)

type memTokenStore struct {
	records map[string]*models.Token
}

func (m *memTokenStore) Save(_ context.Context, token *models.Token) (*models.Token, error) {
	token.ID = primitive.NewObjectID()
	copied := *token
	m.records[token.Token] = &copied
	return token, nil
}

func (m *memTokenStore) FindByToken(_ context.Context, tokenString string) (*models.Token, error) {
	record, ok := m.records[tokenString]
	if !ok {
		return nil, auth.ErrTokenNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memTokenStore) RevokeByToken(_ context.Context, tokenString string) error {
	record, ok := m.records[tokenString]
	if !ok {
		return auth.ErrTokenNotFound
	}
	record.IsRevoked = true
	return nil
}

func (m *memTokenStore) DeleteByToken(_ context.Context, tokenString string) error {
	delete(m.records, tokenString)
	return nil
}

type memUserStore struct {
	users map[string]*models.User
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing test password failed: %v", err)
	}
	users := &memUserStore{users: map[string]*models.User{
		"alice@example.com": {
			ID:           primitive.NewObjectID(),
			Name:         "Alice",
			Surname:      "Doe",
			Email:        "alice@example.com",
			DNI:          "12345678",
			PasswordHash: string(hash),
			Role:         models.RoleProfessor,
		},
	}}

	tokens := &memTokenStore{records: map[string]*models.Token{}}
	codec := auth.NewCodec("test-secret", "professor-app", time.Hour, 7*24*time.Hour, tokens)
	validator := auth.NewValidator(codec, tokens)
	authenticator := auth.NewAuthenticator(users, tokens, codec, validator)

	r := gin.New()
	r.POST("/api/auth/login", Login(authenticator))
	r.POST("/api/auth/refresh", RefreshToken(authenticator))
	r.POST("/api/auth/logout", Logout(authenticator))
	return r
}

func doLogin(t *testing.T, r *gin.Engine) (string, string) {
	t.Helper()

	body := `{"email":"alice@example.com","password":"s3cret"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("login expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding login response failed: %v", err)
	}
	return resp.AccessToken, resp.RefreshToken
}

func TestLoginReturnsTokenPair(t *testing.T) {
	r := newAuthRouter(t)

	access, refresh := doLogin(t, r)
	if access == "" || refresh == "" {
		t.Fatal("expected two non-empty token strings")
	}
	if access == refresh {
		t.Fatal("expected distinct access and refresh tokens")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r := newAuthRouter(t)

	body := `{"email":"alice@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 401 {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRefreshWithRefreshToken(t *testing.T) {
	r := newAuthRouter(t)
	_, refresh := doLogin(t, r)

	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding refresh response failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected a new access token")
	}
}

func TestRefreshWithAccessTokenRejected(t *testing.T) {
	r := newAuthRouter(t)
	access, _ := doLogin(t, r)

	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 401 {
		t.Fatalf("expected 401 for access token at refresh endpoint, got %d", w.Code)
	}
}

func TestRefreshMissingHeader(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/auth/refresh", nil))

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRefreshMalformedHeader(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Token abcdef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	r := newAuthRouter(t)
	_, refresh := doLogin(t, r)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("logout expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 401 {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

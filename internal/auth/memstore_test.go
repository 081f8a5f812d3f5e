package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/models"
)

// In-memory stand-ins for the Mongo-backed stores.

type memTokenStore struct {
	records map[string]*models.Token
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{records: map[string]*models.Token{}}
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
		return nil, ErrTokenNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memTokenStore) RevokeByToken(_ context.Context, tokenString string) error {
	record, ok := m.records[tokenString]
	if !ok {
		return ErrTokenNotFound
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

func newMemUserStore(users ...*models.User) *memUserStore {
	m := &memUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func newTestUser(email string, role models.Role, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	now := time.Now()
	return &models.User{
		ID:           primitive.NewObjectID(),
		Name:         "Test",
		Surname:      "User",
		Email:        email,
		DNI:          "12345678",
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
}

package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/auth"
	"backend/internal/models"
)

// Tokens is the Mongo-backed token record store. The tokens collection keeps
// a unique index on the token string (see database.EnsureTokenIndexes).
type Tokens struct {
	col *mongo.Collection
}

func NewTokens(db *mongo.Database) *Tokens {
	return &Tokens{col: db.Collection("tokens")}
}

func (s *Tokens) Save(ctx context.Context, token *models.Token) (*models.Token, error) {
	res, err := s.col.InsertOne(ctx, token)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		token.ID = id
	}
	return token, nil
}

func (s *Tokens) FindByToken(ctx context.Context, tokenString string) (*models.Token, error) {
	var token models.Token
	err := s.col.FindOne(ctx, bson.M{"token": tokenString}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// RevokeByToken flips isRevoked to true. The update only ever sets the flag,
// so revocation stays monotonic.
func (s *Tokens) RevokeByToken(ctx context.Context, tokenString string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"token": tokenString},
		bson.M{"$set": bson.M{"isRevoked": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrTokenNotFound
	}
	return nil
}

// DeleteByToken removes the record entirely. Used by retention cleanup, not
// by the validation path.
func (s *Tokens) DeleteByToken(ctx context.Context, tokenString string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"token": tokenString})
	return err
}

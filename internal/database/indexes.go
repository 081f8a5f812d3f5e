package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	log.Println("EnsureUserIndexes: creating email_unique and dni_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "dni", Value: 1}},
			Options: options.Index().SetName("dni_unique").SetUnique(true),
		},
	})
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: indexes created")
	return nil
}

func EnsureCourseIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("courses").Indexes()

	codeIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName("code_unique").SetUnique(true),
	}

	log.Println("EnsureCourseIndexes: creating code_unique index")
	_, err := indexes.CreateOne(ctx, codeIndex)
	if err != nil {
		log.Println("EnsureCourseIndexes: code index error:", err)
		return err
	}
	log.Println("EnsureCourseIndexes: code_unique index created")
	return nil
}

// EnsureTokenIndexes keeps the token-string lookup that runs on every
// authenticated request backed by a unique index.
func EnsureTokenIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("tokens").Indexes()

	tokenIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetName("token_unique").SetUnique(true),
	}

	log.Println("EnsureTokenIndexes: creating token_unique index")
	_, err := indexes.CreateOne(ctx, tokenIndex)
	if err != nil {
		log.Println("EnsureTokenIndexes: token index error:", err)
		return err
	}
	log.Println("EnsureTokenIndexes: token_unique index created")
	return nil
}

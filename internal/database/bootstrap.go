package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/models"
)

// SeedDefaultAdmin creates a bootstrap admin account when the users
// collection holds none. No-op when credentials are unset or an admin
// already exists.
func SeedDefaultAdmin(db *mongo.Database, email, password string) error {
	if email == "" || password == "" {
		log.Println("SeedDefaultAdmin: admin credentials not configured, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := models.User{
		Name:         "Default",
		Surname:      "Admin",
		Email:        email,
		DNI:          "00000000",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, admin); err != nil {
		return err
	}

	log.Println("SeedDefaultAdmin: default admin created:", email)
	return nil
}

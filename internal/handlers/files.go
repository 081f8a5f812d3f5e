package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/middleware"
	"backend/internal/models"
)

// UploadFile stores the multipart file on disk and records its metadata. The
// owner is the authenticated subject's user id resolved from the email.
func UploadFile(db *mongo.Database, storageDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/files"
		defer handlePanic(c, route)

		subject := middleware.Subject(c)
		if subject == "" {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "file is required")
			return
		}

		name := filepath.Base(fileHeader.Filename)
		target, err := resolveStoragePath(storageDir, name)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid file name")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The owner must resolve before anything is written; an upload is
		// never recorded without a user id.
		var user models.User
		if err := db.Collection("users").FindOne(ctx,
			bson.M{"email": subject}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if err := os.MkdirAll(storageDir, 0o755); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "storage error")
			return
		}
		if err := c.SaveUploadedFile(fileHeader, target); err != nil {
			log.Printf("[%s] save failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "storage error")
			return
		}

		doc := models.FileDocument{
			UserID:      user.ID.Hex(),
			FileName:    name,
			MimeType:    fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			DownloadURL: "/api/files/" + name,
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("file_documents").InsertOne(ctx, doc)
		if err != nil {
			_ = safeDeleteUpload(storageDir, name)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			doc.ID = id
		}

		log.Printf("[%s] stored file %s (%d bytes)", route, name, doc.Size)
		c.JSON(http.StatusCreated, doc)
	}
}

// DownloadFile streams a stored file back by name.
func DownloadFile(db *mongo.Database, storageDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/files/:name"
		defer handlePanic(c, route)

		name := c.Param("name")
		target, err := resolveStoragePath(storageDir, name)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid file name")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var doc models.FileDocument
		if err := db.Collection("file_documents").FindOne(ctx,
			bson.M{"fileName": name}).Decode(&doc); err != nil {
			respondWithError(c, http.StatusNotFound, route, "file not found")
			return
		}

		if _, err := os.Stat(target); err != nil {
			respondWithError(c, http.StatusNotFound, route, "file not found")
			return
		}

		c.FileAttachment(target, doc.FileName)
	}
}

// GetOwnFiles lists the authenticated user's uploads.
func GetOwnFiles(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/files"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx,
			bson.M{"email": middleware.Subject(c)}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		listFilesByUserID(c, db, route, user.ID.Hex())
	}
}

// GetFilesByUserID lists another user's uploads (admin view).
func GetFilesByUserID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/files/user/:userId"
		defer handlePanic(c, route)

		listFilesByUserID(c, db, route, c.Param("userId"))
	}
}

func listFilesByUserID(c *gin.Context, db *mongo.Database, route, userID string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.Collection("file_documents").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	defer cursor.Close(ctx)

	files := []models.FileDocument{}
	if err := cursor.All(ctx, &files); err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "decode error")
		return
	}

	c.JSON(http.StatusOK, files)
}

package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type PostRequest struct {
	AuthorIDs    []string `json:"authorIds" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	TextContent  string   `json:"textContent" binding:"required"`
	PostedByRole string   `json:"postedByRole" binding:"required"`
	Hashtags     []string `json:"hashtags"`
}

type PostUpdateRequest struct {
	Title       string `json:"title"`
	TextContent string `json:"textContent"`
}

type CommentRequest struct {
	AuthorID string `json:"authorId" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

func CreatePost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/posts"
		defer handlePanic(c, route)

		var req PostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role := models.Role(strings.ToUpper(strings.TrimSpace(req.PostedByRole)))
		if !role.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "unknown role")
			return
		}

		post := models.Post{
			AuthorIDs:    req.AuthorIDs,
			Title:        strings.TrimSpace(req.Title),
			TextContent:  req.TextContent,
			Comments:     []models.Comment{},
			PostedByRole: role,
			Hashtags:     req.Hashtags,
			CreatedAt:    time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").InsertOne(ctx, post)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			post.ID = id
		}

		log.Printf("[%s] post created: %s", route, post.Title)
		c.JSON(http.StatusCreated, post)
	}
}

func GetPost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/posts/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var post models.Post
		if err := db.Collection("posts").FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusOK, post)
	}
}

func UpdatePost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/posts/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}

		var req PostUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set := bson.M{}
		if v := strings.TrimSpace(req.Title); v != "" {
			set["title"] = v
		}
		if v := req.TextContent; strings.TrimSpace(v) != "" {
			set["textContent"] = v
		}
		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "nothing to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "post updated"})
	}
}

func DeletePost(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/posts/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
	}
}

func AddHashtag(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/posts/:id/hashtags/:tag"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}
		tag := strings.TrimSpace(c.Param("tag"))
		if tag == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid hashtag")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").UpdateByID(ctx, id,
			bson.M{"$addToSet": bson.M{"hashtags": tag}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "hashtag added"})
	}
}

func RemoveHashtag(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/posts/:id/hashtags/:tag"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").UpdateByID(ctx, id,
			bson.M{"$pull": bson.M{"hashtags": c.Param("tag")}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "hashtag removed"})
	}
}

// GetPostsByHashtag lists posts carrying the given tag.
func GetPostsByHashtag(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/posts/hashtag/:tag"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("posts").Find(ctx,
			bson.M{"hashtags": strings.TrimSpace(c.Param("tag"))})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var posts []models.Post
		if err := cursor.All(ctx, &posts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, posts)
	}
}

func AddComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/posts/:id/comments"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}

		var req CommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		comment := models.Comment{
			ID:        uuid.NewString(),
			AuthorID:  strings.TrimSpace(req.AuthorID),
			Content:   req.Content,
			CreatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").UpdateByID(ctx, id,
			bson.M{"$push": bson.M{"comments": comment}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusCreated, comment)
	}
}

func RemoveComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/posts/:id/comments/:commentId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid post id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("posts").UpdateByID(ctx, id,
			bson.M{"$pull": bson.M{"comments": bson.M{"id": c.Param("commentId")}}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "post not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "comment removed"})
	}
}

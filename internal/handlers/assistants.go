package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// assistantByID loads the user and verifies the role, sharing the lookup all
// assistant sub-resource handlers start with.
func assistantByID(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := db.Collection("users").FindOne(ctx,
		bson.M{"_id": id, "role": models.RoleAssistant}).Decode(&user)
	return user, err
}

// GetAssistantDuties lists an assistant's duties.
func GetAssistantDuties(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/assistants/:id/duties"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := assistantByID(ctx, db, id)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "assistant not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"duties": user.Duties})
	}
}

// AddAssistantDuty appends a duty to an assistant.
func AddAssistantDuty(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/assistants/:id/duties/:duty"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		duty := strings.TrimSpace(c.Param("duty"))
		if duty == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid duty")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleAssistant},
			bson.M{
				"$addToSet": bson.M{"duties": duty},
				"$set":      bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "assistant not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "duty added"})
	}
}

// RemoveAssistantDuty removes a duty from an assistant. Removing a duty the
// assistant does not hold is an error, not a no-op.
func RemoveAssistantDuty(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/assistants/:id/duties/:duty"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		duty := c.Param("duty")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleAssistant, "duties": duty},
			bson.M{
				"$pull": bson.M{"duties": duty},
				"$set":  bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "assistant or duty not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "duty removed"})
	}
}

// GetAssistantCourses lists the course ids an assistant works on.
func GetAssistantCourses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/assistants/:id/courses"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := assistantByID(ctx, db, id)
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "assistant not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"courseIds": user.CourseIDs})
	}
}

// AddAssistantCourse appends a course id to an assistant's assignments.
func AddAssistantCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/assistants/:id/courses/:courseId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		courseID := strings.TrimSpace(c.Param("courseId"))
		if courseID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleAssistant},
			bson.M{
				"$addToSet": bson.M{"courseIds": courseID},
				"$set":      bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "assistant not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course added"})
	}
}

// SetAssistantCourse replaces the assistant's course assignments with the
// single given course id.
func SetAssistantCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/assistants/:id/courses/:courseId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		courseID := strings.TrimSpace(c.Param("courseId"))
		if courseID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleAssistant},
			bson.M{"$set": bson.M{
				"courseIds":  []string{courseID},
				"modifiedAt": time.Now(),
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "assistant not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course set"})
	}
}

// RemoveAssistantCourse removes a course id from an assistant's assignments.
// Removing an id the assistant does not hold is an error, not a no-op.
func RemoveAssistantCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/assistants/:id/courses/:courseId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		courseID := c.Param("courseId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleAssistant, "courseIds": courseID},
			bson.M{
				"$pull": bson.M{"courseIds": courseID},
				"$set":  bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "assistant or course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course removed"})
	}
}

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

type AddTutorStudentsRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required,min=1"`
}

// GetTutorStudents lists the student ids assigned to a tutor.
func GetTutorStudents(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/tutors/:id/students"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx,
			bson.M{"_id": id, "role": models.RoleTutor}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "tutor not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"studentIds": user.StudentIDs})
	}
}

// AddTutorStudent assigns a single student id to a tutor.
func AddTutorStudent(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/tutors/:id/students/:studentId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		studentID := strings.TrimSpace(c.Param("studentId"))
		if studentID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid student id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleTutor},
			bson.M{
				"$addToSet": bson.M{"studentIds": studentID},
				"$set":      bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "tutor not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "student added"})
	}
}

// AddTutorStudents assigns a list of student ids to a tutor in one update. An
// empty list is rejected.
func AddTutorStudents(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/tutors/:id/students"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var req AddTutorStudentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleTutor},
			bson.M{
				"$addToSet": bson.M{"studentIds": bson.M{"$each": req.StudentIDs}},
				"$set":      bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "tutor not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "students added"})
	}
}

// RemoveTutorStudent removes a student id from a tutor. Removing an id the
// tutor does not hold is an error, not a no-op.
func RemoveTutorStudent(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/tutors/:id/students/:studentId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}
		studentID := c.Param("studentId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx,
			bson.M{"_id": id, "role": models.RoleTutor}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "tutor not found")
			return
		}
		if !user.StudentIDs.Contains(studentID) {
			respondWithError(c, http.StatusNotFound, route, "student id not assigned to tutor")
			return
		}

		if _, err := db.Collection("users").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"studentIds": user.StudentIDs.Without(studentID),
			"modifiedAt": time.Now(),
		}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "student removed"})
	}
}

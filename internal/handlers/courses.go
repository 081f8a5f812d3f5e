package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type CourseRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Comments string `json:"comments"`
}

func CreateCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/courses"
		defer handlePanic(c, route)

		var req CourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		course := models.Course{
			Code:       strings.TrimSpace(req.Code),
			Name:       strings.TrimSpace(req.Name),
			Comments:   strings.TrimSpace(req.Comments),
			StudentIDs: models.StringList{},
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("courses").InsertOne(ctx, course)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "course code already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			course.ID = id
		}

		log.Printf("[%s] course created: %s", route, course.Code)
		c.JSON(http.StatusCreated, course)
	}
}

func GetCourses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/courses"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("courses").Find(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var courses []models.Course
		if err := cursor.All(ctx, &courses); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, courses)
	}
}

func GetCourseByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/courses/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var course models.Course
		if err := db.Collection("courses").FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, course)
	}
}

func GetCourseByCode(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/courses/code/:code"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var course models.Course
		if err := db.Collection("courses").FindOne(ctx,
			bson.M{"code": strings.TrimSpace(c.Param("code"))}).Decode(&course); err != nil {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, course)
	}
}

func UpdateCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/courses/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		var req CourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("courses").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"code":     strings.TrimSpace(req.Code),
			"name":     strings.TrimSpace(req.Name),
			"comments": strings.TrimSpace(req.Comments),
		}})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "course code already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course updated"})
	}
}

func DeleteCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/courses/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("courses").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
	}
}

func GetCourseStudents(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/courses/:id/students"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var course models.Course
		if err := db.Collection("courses").FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"studentIds": course.StudentIDs})
	}
}

func AddStudentToCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/courses/:id/students/:studentId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}
		studentID := strings.TrimSpace(c.Param("studentId"))
		if studentID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid student id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("courses").UpdateByID(ctx, id,
			bson.M{"$addToSet": bson.M{"studentIds": studentID}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "student added"})
	}
}

func RemoveStudentFromCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/courses/:id/students/:studentId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("courses").UpdateByID(ctx, id,
			bson.M{"$pull": bson.M{"studentIds": c.Param("studentId")}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "student removed"})
	}
}

type ReplaceStudentRequest struct {
	NewStudentID string `json:"newStudentId" binding:"required"`
}

// ReplaceCourseStudent swaps one student id on the roster for another. The
// outgoing id must be on the roster; the incoming one is not duplicated if it
// already is.
func ReplaceCourseStudent(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/courses/:id/students/:studentId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}
		oldStudentID := c.Param("studentId")

		var req ReplaceStudentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		newStudentID := strings.TrimSpace(req.NewStudentID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var course models.Course
		if err := db.Collection("courses").FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}
		if !course.StudentIDs.Contains(oldStudentID) {
			respondWithError(c, http.StatusNotFound, route, "student id not on course roster")
			return
		}

		roster := course.StudentIDs.Without(oldStudentID)
		if !roster.Contains(newStudentID) {
			roster = append(roster, newStudentID)
		}

		if _, err := db.Collection("courses").UpdateByID(ctx, id,
			bson.M{"$set": bson.M{"studentIds": roster}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "student replaced"})
	}
}

// ClearCourseStudents empties the whole student list of a course.
func ClearCourseStudents(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/courses/:id/students"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("courses").UpdateByID(ctx, id,
			bson.M{"$set": bson.M{"studentIds": models.StringList{}}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "course not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "students cleared"})
	}
}

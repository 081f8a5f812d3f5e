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
	"golang.org/x/crypto/bcrypt"

	"backend/internal/middleware"
	"backend/internal/models"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	DNI      string `json:"dni" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`

	// role-specific, all optional
	Comments          string   `json:"comments"`
	EnrolledCourseIDs []string `json:"enrolledCourseIds"`
	CourseIDs         []string `json:"courseIds"`
	StudentIDs        []string `json:"studentIds"`
	TutoredSubjects   []string `json:"tutoredSubjects"`
	Duties            []string `json:"duties"`
}

type UpdateUserRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// userResponse is what user endpoints return; the password hash never leaves
// the model's json:"-" tag, this just trims the role-specific noise.
type userResponse struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Surname string      `json:"surname"`
	Email   string      `json:"email"`
	DNI     string      `json:"dni"`
	Role    models.Role `json:"role"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		DNI:     u.DNI,
		Role:    u.Role,
	}
}

func CreateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users"
		defer handlePanic(c, route)

		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
		if !role.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "unknown role")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{
			"$or": []bson.M{{"email": email}, {"dni": strings.TrimSpace(req.DNI)}},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "email or dni already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Name:              strings.TrimSpace(req.Name),
			Surname:           strings.TrimSpace(req.Surname),
			Email:             email,
			DNI:               strings.TrimSpace(req.DNI),
			PasswordHash:      string(hash),
			Role:              role,
			Comments:          strings.TrimSpace(req.Comments),
			EnrolledCourseIDs: req.EnrolledCourseIDs,
			CourseIDs:         req.CourseIDs,
			StudentIDs:        req.StudentIDs,
			TutoredSubjects:   req.TutoredSubjects,
			Duties:            req.Duties,
			CreatedAt:         now,
			ModifiedAt:        now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			user.ID = id
		}

		log.Printf("[%s] user created: %s (%s)", route, email, role)
		c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

func GetUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination")
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{}
		if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
			filter["role"] = role
		}

		cursor, err := db.Collection("users").Find(ctx, filter,
			optionsFindPage(page, limit))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		c.JSON(http.StatusOK, out)
	}
}

func GetUserByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		set := bson.M{"modifiedAt": time.Now()}
		if v := strings.TrimSpace(req.Name); v != "" {
			set["name"] = v
		}
		if v := strings.TrimSpace(req.Surname); v != "" {
			set["surname"] = v
		}
		if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
			set["email"] = v
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "user updated"})
	}
}

// UpdatePassword verifies the old password before storing the new hash. Only
// the authenticated owner may change it.
func UpdatePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id/password"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if user.Email != middleware.Subject(c) {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		if _, err := db.Collection("users").UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"passwordHash": string(hash),
			"modifiedAt":   time.Now(),
		}}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		log.Printf("[%s] user deleted: %s", route, id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}

type UpdateCommentsRequest struct {
	Comments string `json:"comments" binding:"required"`
}

// UpdateAdminComments replaces the free-form comments on an admin record.
func UpdateAdminComments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id/comments"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		var req UpdateCommentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleAdmin},
			bson.M{"$set": bson.M{
				"comments":   strings.TrimSpace(req.Comments),
				"modifiedAt": time.Now(),
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "admin not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "comments updated"})
	}
}

// EnrollStudentInCourse appends a course id to the student's enrolled list.
func EnrollStudentInCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/students/:id/courses/:courseId"
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
			bson.M{"_id": id, "role": models.RoleStudent},
			bson.M{
				"$addToSet": bson.M{"enrolledCourseIds": courseID},
				"$set":      bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "student not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course enrolled"})
	}
}

// UnenrollStudentFromCourse removes a course id from the student's enrolled
// list.
func UnenrollStudentFromCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/students/:id/courses/:courseId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": id, "role": models.RoleStudent},
			bson.M{
				"$pull": bson.M{"enrolledCourseIds": c.Param("courseId")},
				"$set":  bson.M{"modifiedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "student not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "course removed"})
	}
}

type EnrollStudentsRequest struct {
	StudentIDs []string `json:"studentIds" binding:"required,min=1"`
}

// EnrollStudentsInCourse enrolls a list of students into one course. Student
// ids that are malformed or do not resolve to a student are reported back,
// not treated as a failure of the whole batch.
func EnrollStudentsInCourse(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/students/courses/:courseId"
		defer handlePanic(c, route)

		courseID := strings.TrimSpace(c.Param("courseId"))
		if courseID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid course id")
			return
		}

		var req EnrollStudentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		notFound := []string{}
		ids := make([]primitive.ObjectID, 0, len(req.StudentIDs))
		for _, raw := range req.StudentIDs {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
			if err != nil {
				notFound = append(notFound, raw)
				continue
			}
			ids = append(ids, id)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{"_id": bson.M{"$in": ids}, "role": models.RoleStudent}

		cursor, err := db.Collection("users").Find(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		found := map[primitive.ObjectID]bool{}
		var students []models.User
		if err := cursor.All(ctx, &students); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}
		for _, s := range students {
			found[s.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				notFound = append(notFound, id.Hex())
			}
		}

		if len(found) > 0 {
			if _, err := db.Collection("users").UpdateMany(ctx, filter, bson.M{
				"$addToSet": bson.M{"enrolledCourseIds": courseID},
				"$set":      bson.M{"modifiedAt": time.Now()},
			}); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		log.Printf("[%s] enrolled %d students in %s", route, len(found), courseID)
		c.JSON(http.StatusOK, gin.H{
			"enrolledCount":      len(found),
			"notFoundStudentIds": notFound,
		})
	}
}

// GetEnrolledCourses lists the course ids a student is enrolled in.
func GetEnrolledCourses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/students/:id/courses"
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
			bson.M{"_id": id, "role": models.RoleStudent}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "student not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"enrolledCourseIds": user.EnrolledCourseIDs})
	}
}

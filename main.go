package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/store"
)

func main() {
	config.Load()

	if config.AppEnv.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureCourseIndexes(db); err != nil {
		log.Printf("course index warning: %v", err)
	}
	if err := database.EnsureTokenIndexes(db); err != nil {
		log.Printf("token index warning: %v", err)
	}
	if err := database.SeedDefaultAdmin(db, config.AppEnv.AdminEmail, config.AppEnv.AdminPassword); err != nil {
		log.Printf("admin seed warning: %v", err)
	}

	tokens := store.NewTokens(db)
	users := store.NewUsers(db)
	codec := auth.NewCodec(
		config.AppEnv.JWTSecret,
		config.AppEnv.JWTIssuer,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
		tokens,
	)
	validator := auth.NewValidator(codec, tokens)
	authenticator := auth.NewAuthenticator(users, tokens, codec, validator)

	r := gin.Default()
	r.Use(middleware.Authentication(validator))

	r.POST("/api/auth/login", handlers.Login(authenticator))
	r.POST("/api/auth/refresh", handlers.RefreshToken(authenticator))
	r.POST("/api/auth/logout", handlers.Logout(authenticator))

	adminOnly := middleware.RequireAuthorities(models.RoleAdmin.Authority())
	staff := middleware.RequireAuthorities(
		models.RoleAdmin.Authority(),
		models.RoleProfessor.Authority(),
		models.RoleAssistant.Authority(),
	)
	anyUser := middleware.RequireAuthorities()

	api := r.Group("/api")
	{
		usersGroup := api.Group("/users")
		{
			usersGroup.POST("", adminOnly, handlers.CreateUser(db))
			usersGroup.GET("", staff, handlers.GetUsers(db))
			usersGroup.GET("/:id", anyUser, handlers.GetUserByID(db))
			usersGroup.PUT("/:id", adminOnly, handlers.UpdateUser(db))
			usersGroup.PUT("/:id/password", anyUser, handlers.UpdatePassword(db))
			usersGroup.PUT("/:id/comments", adminOnly, handlers.UpdateAdminComments(db))
			usersGroup.DELETE("/:id", adminOnly, handlers.DeleteUser(db))
		}

		students := api.Group("/students", staff)
		{
			students.GET("/:id/courses", handlers.GetEnrolledCourses(db))
			students.POST("/:id/courses/:courseId", handlers.EnrollStudentInCourse(db))
			students.POST("/courses/:courseId", handlers.EnrollStudentsInCourse(db))
			students.DELETE("/:id/courses/:courseId", handlers.UnenrollStudentFromCourse(db))
		}

		tutors := api.Group("/tutors", staff)
		{
			tutors.GET("/:id/students", handlers.GetTutorStudents(db))
			tutors.POST("/:id/students", handlers.AddTutorStudents(db))
			tutors.POST("/:id/students/:studentId", handlers.AddTutorStudent(db))
			tutors.DELETE("/:id/students/:studentId", handlers.RemoveTutorStudent(db))
		}

		assistants := api.Group("/assistants", staff)
		{
			assistants.GET("/:id/duties", handlers.GetAssistantDuties(db))
			assistants.POST("/:id/duties/:duty", handlers.AddAssistantDuty(db))
			assistants.DELETE("/:id/duties/:duty", handlers.RemoveAssistantDuty(db))
			assistants.GET("/:id/courses", handlers.GetAssistantCourses(db))
			assistants.POST("/:id/courses/:courseId", handlers.AddAssistantCourse(db))
			assistants.PUT("/:id/courses/:courseId", handlers.SetAssistantCourse(db))
			assistants.DELETE("/:id/courses/:courseId", handlers.RemoveAssistantCourse(db))
		}

		courses := api.Group("/courses")
		{
			courses.GET("", anyUser, handlers.GetCourses(db))
			courses.GET("/:id", anyUser, handlers.GetCourseByID(db))
			courses.GET("/code/:code", anyUser, handlers.GetCourseByCode(db))
			courses.GET("/:id/students", staff, handlers.GetCourseStudents(db))
			courses.POST("", staff, handlers.CreateCourse(db))
			courses.PUT("/:id", staff, handlers.UpdateCourse(db))
			courses.DELETE("/:id", adminOnly, handlers.DeleteCourse(db))
			courses.POST("/:id/students/:studentId", staff, handlers.AddStudentToCourse(db))
			courses.PUT("/:id/students/:studentId", staff, handlers.ReplaceCourseStudent(db))
			courses.DELETE("/:id/students/:studentId", staff, handlers.RemoveStudentFromCourse(db))
			courses.DELETE("/:id/students", adminOnly, handlers.ClearCourseStudents(db))
		}

		posts := api.Group("/posts", anyUser)
		{
			posts.POST("", handlers.CreatePost(db))
			posts.GET("/:id", handlers.GetPost(db))
			posts.PUT("/:id", handlers.UpdatePost(db))
			posts.DELETE("/:id", handlers.DeletePost(db))
			posts.POST("/:id/hashtags/:tag", handlers.AddHashtag(db))
			posts.DELETE("/:id/hashtags/:tag", handlers.RemoveHashtag(db))
			posts.GET("/hashtag/:tag", handlers.GetPostsByHashtag(db))
			posts.POST("/:id/comments", handlers.AddComment(db))
			posts.DELETE("/:id/comments/:commentId", handlers.RemoveComment(db))
		}

		files := api.Group("/files", anyUser)
		{
			files.POST("", handlers.UploadFile(db, config.AppEnv.StorageDir))
			files.GET("", handlers.GetOwnFiles(db))
			files.GET("/:name", handlers.DownloadFile(db, config.AppEnv.StorageDir))
			files.GET("/user/:userId", staff, handlers.GetFilesByUserID(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

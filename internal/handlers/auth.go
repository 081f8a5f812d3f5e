package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/auth"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pair, err := authenticator.Login(ctx, email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrCredentialsInvalid) {
				log.Println("[AUTH] [ERROR] login invalid credentials:", email)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			log.Println("[AUTH] [ERROR] login failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, pair)
	}
}

// RefreshToken redeems the bearer refresh token for a new access token. A
// missing or malformed header is a 400; a failed validation or an access
// token presented here is a 401.
func RefreshToken(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/refresh"
		defer handlePanic(c, route)

		raw, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		access, err := authenticator.Refresh(ctx, raw)
		if err != nil {
			if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrWrongTokenType) ||
				errors.Is(err, auth.ErrCredentialsInvalid) {
				log.Println("[AUTH] [ERROR] refresh rejected:", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
				return
			}
			log.Println("[AUTH] [ERROR] refresh failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"accessToken": access})
	}
}

// Logout revokes the presented bearer token.
func Logout(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/logout"
		defer handlePanic(c, route)

		raw, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := authenticator.Logout(ctx, raw); err != nil {
			if errors.Is(err, auth.ErrTokenInvalid) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			log.Println("[AUTH] [ERROR] logout failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

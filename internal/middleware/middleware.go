package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			// Don't return error details in production
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// AuthMiddleware validates the access token cookie and stores the caller's
// identity on the context. An expired token is refreshed transparently with
// the refresh token cookie. Everything past this middleware trusts the user
// id it sets; no further authentication happens downstream.
func AuthMiddleware(userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized access",
				"error":   "JWT token not found in cookie",
			})
			c.Abort()
			return
		}

		claims, err := helpers.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie("refresh_token")
			if refreshErr != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   err.Error(),
				})
				c.Abort()
				return
			}

			refreshResponse, refreshErr := userService.RefreshToken(refreshToken)
			if refreshErr != nil {
				logger.Error("Token refresh failed", "error", refreshErr)
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Token expired and refresh failed",
				})
				c.Abort()
				return
			}

			isProduction := os.Getenv("GIN_MODE") == "production"
			tokenRes, ok := refreshResponse.(*types.TokenResponse)
			if !ok || tokenRes.AccessToken == "" {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Invalid refresh response",
				})
				c.Abort()
				return
			}

			logger.Info("Token refreshed successfully",
				"user_id", tokenRes.User.ID,
				"expires_in", tokenRes.ExpiresIn,
			)
			c.SetCookie(
				"access_token",
				tokenRes.AccessToken,
				tokenRes.ExpiresIn,
				"/",
				"",
				isProduction,
				true,
			)
			c.SetCookie(
				"refresh_token",
				tokenRes.RefreshToken,
				3600*24*30, // 30 days
				"/",
				"",
				isProduction,
				true,
			)

			claims, err = helpers.ValidateToken(tokenRes.AccessToken)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Refreshed token validation failed",
				})
				c.Abort()
				return
			}
		}

		role := claims.Role
		if role == "" {
			role = "guest"
		}

		enhancedClaims := &helpers.EnhancedClaims{
			CustomClaims: claims,
			Role:         role,
			UserID:       claims.Subject,
			Email:        claims.Email,
		}

		c.Set("user", enhancedClaims)
		c.Next()
	}
}

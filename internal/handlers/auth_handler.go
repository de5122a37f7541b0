package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nestbay/api/internal/models"
	"github.com/nestbay/api/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

func CreateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		createdUser, err := u.CreateUser(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(createdUser, "user created"))
	}
}

func AuthenticateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		authResponse, err := u.AuthenticateUser(req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid email or password"))
			return
		}

		isProduction := os.Getenv("GIN_MODE") == "production"

		if tokenRes, ok := authResponse.(*types.TokenResponse); ok && tokenRes.AccessToken != "" {
			c.SetCookie(
				"access_token",
				tokenRes.AccessToken,
				tokenRes.ExpiresIn,
				"/",
				"", // let Gin pick current domain
				isProduction,
				true,
			)

			// Refresh token - expires in 30 days
			c.SetCookie(
				"refresh_token",
				tokenRes.RefreshToken,
				3600*24*30,
				"/",
				"",
				isProduction,
				true,
			)

			c.JSON(http.StatusOK, gin.H{
				"user": tokenRes.User,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid token response"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"

		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}

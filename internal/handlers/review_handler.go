package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
	"github.com/nestbay/api/internal/services"
)

func CreateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, err := userIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		houseID := helpers.StringTrim(c.Param("id"))
		parsedId, err := uuid.Parse(houseID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid house ID format"))
			return
		}

		var req struct {
			Rating  int    `json:"rating" binding:"required,min=1,max=5"`
			Comment string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		review, err := r.CreateReview(c.Request.Context(), parsedId, userId, req.Rating, req.Comment)
		if errors.Is(err, models.ErrHouseNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse("house not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(review, "Review created successfully"))
	}
}

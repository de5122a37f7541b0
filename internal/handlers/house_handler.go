package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nestbay/api/internal/connect"
	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
	"github.com/nestbay/api/internal/services"
)

func ListHouses(h *services.HouseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := c.DefaultQuery("limit", "10")
		offset := c.DefaultQuery("offset", "0")
		limitInt, err := strconv.Atoi(limit)
		if err != nil || limitInt <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
			return
		}
		offsetInt, err := strconv.Atoi(offset)
		if err != nil || offsetInt < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
			return
		}

		houses, total, err := h.ListHouses(c.Request.Context(), offsetInt, limitInt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(houses, page, limitInt, total))
	}
}

func GetHouse(h *services.HouseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		houseID := helpers.StringTrim(c.Param("id"))
		if houseID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("house ID is required"))
			return
		}

		parsedId, err := uuid.Parse(houseID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid house ID format"))
			return
		}

		detail, err := h.GetHouse(c.Request.Context(), parsedId)
		if errors.Is(err, models.ErrHouseNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse("house not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(detail, ""))
	}
}

func CreateHouse(h *services.HouseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostId, err := userIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		var house models.House
		if err := c.ShouldBindJSON(&house); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := h.CreateHouse(c.Request.Context(), &house, hostId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "House created successfully"))
	}
}

func UpdateHouse(h *services.HouseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostId, err := userIDFromContext(c)
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

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := h.UpdateHouse(c.Request.Context(), parsedId, hostId, fields)
		switch {
		case errors.Is(err, models.ErrHouseNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse("house not found"))
		case errors.Is(err, models.ErrNotOwner):
			c.JSON(http.StatusForbidden, models.ErrorResponse("you can only edit your own houses"))
		case err != nil:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusOK, models.SuccessResponse(updated, "House updated successfully"))
		}
	}
}

// UploadHouseImage pushes a multipart image to Cloudinary and returns its URL.
func UploadHouseImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := userIDFromContext(c); err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("image file is required"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to read image file"))
			return
		}
		defer file.Close()

		url, publicID, err := helpers.UploadImage(c.Request.Context(), connect.Cld, file, helpers.HouseFolder)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"url":       url,
			"public_id": publicID,
		}, "Image uploaded successfully"))
	}
}

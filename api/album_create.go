package api

import (
	"net/http"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type albumCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

func (a *API) AlbumCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var req albumCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "title is required",
			"requestID": requestID,
		})
		return
	}

	album := model.Album{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := a.DB.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to create album",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create album", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          album.ID,
		"title":       album.Title,
		"description": album.Description,
		"created_at":  album.CreatedAt,
	})
}

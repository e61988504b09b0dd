package api

import (
	"net/http"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type albumSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	PhotoCount  int64     `json:"photo_count"`
}

func (a *API) AlbumList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var albums []model.Album

	err := a.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&albums).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list albums", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := make([]albumSummary, 0, len(albums))

	for _, album := range albums {
		var count int64

		err := a.DB.
			Model(model.AlbumPhoto{}).
			Where("album_id = ?", album.ID).
			Count(&count).
			Error
		if err != nil {
			zap.L().Warn("Failed to count album photos", zap.String("album_id", album.ID), zap.Error(err))
		}

		out = append(out, albumSummary{
			ID:          album.ID,
			Title:       album.Title,
			Description: album.Description,
			CreatedAt:   album.CreatedAt,
			PhotoCount:  count,
		})
	}

	c.JSON(http.StatusOK, out)
}

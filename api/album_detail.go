package api

import (
	"errors"
	"net/http"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlbumDetail returns one album with its photos. Soft-deleted photos are
// hidden, they reappear on restore
func (a *API) AlbumDetail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	albumID := c.Param("albumID")

	var album model.Album

	err := a.DB.
		Where("id = ? AND user_id = ?", albumID, userID).
		First(&album).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Album not found or access denied",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up album", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var photos []model.Photo

	err = a.DB.
		Joins("JOIN album_photos ON album_photos.photo_id = photos.id").
		Where("album_photos.album_id = ? AND photos.is_deleted = ?", albumID, false).
		Order("photos.upload_date DESC").
		Find(&photos).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list album photos", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	items := make([]galleryItem, 0, len(photos))
	for i := range photos {
		items = append(items, a.toGalleryItem(c, &photos[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          album.ID,
		"title":       album.Title,
		"description": album.Description,
		"created_at":  album.CreatedAt,
		"photos":      items,
	})
}

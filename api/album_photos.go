package api

import (
	"fmt"
	"net/http"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

type albumAddPhotosRequest struct {
	PhotoIDs []string `json:"photo_ids" binding:"required"`
}

// AlbumAddPhotos links photos into an album. Photos already present are
// skipped via ON CONFLICT DO NOTHING, so the call is idempotent
func (a *API) AlbumAddPhotos(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	albumID := c.Param("albumID")

	var req albumAddPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.PhotoIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "photo_ids must be a non-empty array",
			"requestID": requestID,
		})
		return
	}

	if !a.ownsAlbum(c, albumID, userID, requestID) {
		return
	}

	// Only photos the caller actually owns are eligible for linking
	var ownedIDs []string

	err := a.DB.
		Model(model.Photo{}).
		Where("id IN ? AND user_id = ?", req.PhotoIDs, userID).
		Pluck("id", &ownedIDs).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify photo ownership", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(ownedIDs) > 0 {
		links := make([]model.AlbumPhoto, 0, len(ownedIDs))
		for _, id := range ownedIDs {
			links = append(links, model.AlbumPhoto{AlbumID: albumID, PhotoID: id})
		}

		err := a.DB.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&links).
			Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Failed to add photos to album",
				"requestID": requestID,
			})

			zap.L().Error("Failed to link photos to album", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	// The message counts the whole request, not just what survived the
	// ownership filter and the duplicate skip
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Attempted to add %d photo(s) to album %s.", len(req.PhotoIDs), albumID),
	})
}

func (a *API) AlbumRemovePhoto(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	albumID := c.Param("albumID")
	photoID := c.Param("photoID")

	if !a.ownsAlbum(c, albumID, userID, requestID) {
		return
	}

	res := a.DB.
		Where("album_id = ? AND photo_id = ?", albumID, photoID).
		Delete(&model.AlbumPhoto{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to unlink photo from album", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Photo not found in album",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Photo %s removed from album %s.", photoID, albumID),
	})
}

func (a *API) ownsAlbum(c *gin.Context, albumID, userID, requestID string) bool {
	var count int64

	err := a.DB.
		Model(model.Album{}).
		Where("id = ? AND user_id = ?", albumID, userID).
		Count(&count).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up album", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Album not found or access denied",
			"requestID": requestID,
		})
		return false
	}

	return true
}

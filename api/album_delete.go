package api

import (
	"fmt"
	"net/http"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AlbumDelete removes an album and its photo links. The photos themselves
// stay in the gallery
func (a *API) AlbumDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	albumID := c.Param("albumID")

	if !a.ownsAlbum(c, albumID, userID, requestID) {
		return
	}

	err := a.DB.
		Where("album_id = ?", albumID).
		Delete(&model.AlbumPhoto{}).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to unlink album photos", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Where("id = ? AND user_id = ?", albumID, userID).
		Delete(&model.Album{}).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete album", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Album %s deleted.", albumID),
	})
}

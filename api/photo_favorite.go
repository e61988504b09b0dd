package api

import (
	"fmt"
	"net/http"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) PhotoFavorite(c *gin.Context) {
	a.setFavoriteFlag(c, true, "Photo %s marked as favorite.")
}

func (a *API) PhotoUnfavorite(c *gin.Context) {
	a.setFavoriteFlag(c, false, "Photo %s removed from favorites.")
}

func (a *API) setFavoriteFlag(c *gin.Context, favorite bool, okMsg string) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	photoID := c.Param("photoID")

	res := a.DB.
		Model(model.Photo{}).
		Where("id = ? AND user_id = ?", photoID, userID).
		Update("is_favorite", favorite)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update favorite flag", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Photo not found or access denied",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf(okMsg, photoID),
	})
}

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/StrixzIV/adv-compro-finals/model"
	"github.com/StrixzIV/adv-compro-finals/service"
	"github.com/StrixzIV/adv-compro-finals/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Objects are streamed to the client in fixed-size chunks instead of
// being buffered whole
const fetchChunkSize = 32 * 1024

// PhotoFetch streams the original bytes. Ownership and existence checks
// are indistinguishable on purpose, non-owners learn nothing
func (a *API) PhotoFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	photoID := c.Param("photoID")

	var photo model.Photo

	err := a.DB.
		Select("file_path", "filename").
		Where("id = ? AND user_id = ?", photoID, userID).
		First(&photo).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Photo not found or access denied",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up photo", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.streamObject(c, photo.FilePath, "application/octet-stream",
		fmt.Sprintf("attachment; filename=%q", photo.Filename))
}

// ThumbnailFetch streams the derived thumbnail. The key embeds the
// caller's own id, so there is nothing to check against the database
func (a *API) ThumbnailFetch(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	photoID := c.Param("photoID")

	a.streamObject(c, service.ThumbnailKey(userID, photoID), "image/jpeg",
		fmt.Sprintf("inline; filename=%q", photoID+".jpeg"))
}

func (a *API) streamObject(c *gin.Context, key, contentType, disposition string) {
	requestID := c.MustGet("requestID").(string)

	obj, err := a.Store.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectMissing) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "File content not found in storage",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to retrieve file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch object", zap.String("key", key), zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer obj.Close()

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", disposition)
	c.Status(http.StatusOK)

	buf := make([]byte, fetchChunkSize)
	if _, err := io.CopyBuffer(c.Writer, obj, buf); err != nil {
		// Headers are gone already, all we can do is log
		zap.L().Warn("Object stream interrupted", zap.String("key", key), zap.Error(err))
	}
}

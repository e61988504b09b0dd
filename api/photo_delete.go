package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/StrixzIV/adv-compro-finals/model"
	"github.com/StrixzIV/adv-compro-finals/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PhotoDelete performs a hard delete: the object, its thumbnail and the
// metadata row all go. Already-absent objects count as deleted
func (a *API) PhotoDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	photoID := c.Param("photoID")

	var photo model.Photo

	err := a.DB.
		Select("id", "file_path").
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

	ctx := c.Request.Context()

	// Original and thumbnail are removed independently so one missing
	// object never blocks the other or the metadata row
	removeFailed := false

	if err := a.Store.Remove(ctx, photo.FilePath); err != nil {
		removeFailed = true
		zap.L().Error("Failed to delete object", zap.String("key", photo.FilePath), zap.Error(err), zap.String("requestID", requestID))
	}

	thumbKey := service.ThumbnailKey(userID, photoID)
	if err := a.Store.Remove(ctx, thumbKey); err != nil {
		removeFailed = true
		zap.L().Error("Failed to delete thumbnail", zap.String("key", thumbKey), zap.Error(err), zap.String("requestID", requestID))
	}

	if removeFailed {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to delete file from storage",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Where("id = ? AND user_id = ?", photoID, userID).
		Delete(&model.Photo{}).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to delete photo metadata",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete photo row", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.Sizes.Forget(ctx, photo.FilePath)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Photo %s permanently deleted.", photoID),
	})
}

// PhotoSoftDelete flips is_deleted on. Repeating it is a no-op, not an
// error
func (a *API) PhotoSoftDelete(c *gin.Context) {
	a.setDeletedFlag(c, true,
		"Photo %s soft-deleted successfully.",
		"Photo %s is already soft-deleted.")
}

// PhotoRestore flips is_deleted back off, same idempotency contract
func (a *API) PhotoRestore(c *gin.Context) {
	a.setDeletedFlag(c, false,
		"Photo %s restored successfully.",
		"Photo %s is not soft-deleted (already in main gallery).")
}

func (a *API) setDeletedFlag(c *gin.Context, deleted bool, okMsg, noopMsg string) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	photoID := c.Param("photoID")

	var photo model.Photo

	err := a.DB.
		Select("id", "is_deleted").
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

	if photo.IsDeleted == deleted {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf(noopMsg, photoID),
		})
		return
	}

	err = a.DB.
		Model(model.Photo{}).
		Where("id = ? AND user_id = ?", photoID, userID).
		Update("is_deleted", deleted).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update photo flag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf(okMsg, photoID),
	})
}

// ClearTrash hard-deletes every soft-deleted photo the caller owns. Each
// photo is handled independently, one failure never aborts the batch
func (a *API) ClearTrash(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var photos []model.Photo

	err := a.DB.
		Select("id", "file_path").
		Where("user_id = ? AND is_deleted = ?", userID, true).
		Find(&photos).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list trashed photos", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(photos) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "Trash is already empty.",
		})
		return
	}

	ctx := c.Request.Context()
	deleted := 0

	for _, photo := range photos {
		if err := a.Store.Remove(ctx, photo.FilePath); err != nil {
			zap.L().Error("Failed to delete object during clear-trash", zap.String("key", photo.FilePath), zap.Error(err))
			continue
		}

		if err := a.Store.Remove(ctx, service.ThumbnailKey(userID, photo.ID)); err != nil {
			zap.L().Error("Failed to delete thumbnail during clear-trash", zap.String("photo_id", photo.ID), zap.Error(err))
		}

		err := a.DB.
			Where("id = ? AND user_id = ?", photo.ID, userID).
			Delete(&model.Photo{}).
			Error
		if err != nil {
			zap.L().Error("Failed to delete photo row during clear-trash", zap.String("photo_id", photo.ID), zap.Error(err))
			continue
		}

		a.Sizes.Forget(ctx, photo.FilePath)
		deleted++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully deleted %d item(s) from trash.", deleted),
	})
}

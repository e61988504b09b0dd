package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"
	"github.com/StrixzIV/adv-compro-finals/service"
	"github.com/StrixzIV/adv-compro-finals/validators"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (a *API) PhotoUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	if code, err := validators.PhotoValidator(fh, a.Cfg.MaxUploadSize); err != nil {
		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open multipart file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read multipart file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	photoID := uuid.NewString()
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))

	objectKey := service.ObjectKey(userID, photoID, ext)
	thumbKey := service.ThumbnailKey(userID, photoID)

	// Both steps tolerate non-image bytes, the photo is stored either way
	var exifJSON *string

	if exifData := service.ExtractEXIF(fileBytes); exifData != nil {
		raw, err := json.Marshal(exifData)
		if err != nil {
			zap.L().Warn("Failed to serialize EXIF data", zap.Error(err), zap.String("requestID", requestID))
		} else {
			s := string(raw)
			exifJSON = &s
		}
	}

	thumb, err := service.MakeThumbnail(fileBytes)
	if err != nil {
		zap.L().Warn("Could not create thumbnail", zap.Error(err), zap.String("requestID", requestID))
		thumb = nil
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err = a.Uploader.Do(c.Request.Context(), objectKey, thumbKey, fileBytes, thumb, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to process file upload",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload photo to object storage", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	photo := model.Photo{
		ID:         photoID,
		UserID:     userID,
		FilePath:   objectKey,
		Filename:   fh.Filename,
		UploadDate: time.Now(),
		ExifData:   exifJSON,
		SizeBytes:  int64(len(fileBytes)),
	}

	if err := a.DB.Create(&photo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to record metadata",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save photo record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"photo_id": photoID,
		"filename": fh.Filename,
		"file_url": "/storage/fetch/" + photoID,
	})
}

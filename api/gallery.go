package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type galleryItem struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	Caption      *string        `json:"caption"`
	UploadDate   time.Time      `json:"upload_date"`
	FileURL      string         `json:"file_url"`
	ThumbnailURL string         `json:"thumbnail_url"`
	ExifData     map[string]any `json:"exif_data"`
	IsDeleted    bool           `json:"is_deleted"`
	IsFavorite   bool           `json:"is_favorite"`
	SizeBytes    int64          `json:"size_bytes"`
}

// Gallery lists the caller's live photos, newest upload first, paginated
// with limit/offset query params
func (a *API) Gallery(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	limit, offset, ok := paginationParams(c, requestID)
	if !ok {
		return
	}

	a.listPhotos(c, limit, offset, "is_deleted = ?", false)
}

// Trash lists every soft-deleted photo the caller owns. The trash view
// always shows everything, limit and offset are not honored here
func (a *API) Trash(c *gin.Context) {
	a.listPhotos(c, -1, -1, "is_deleted = ?", true)
}

// Favorites lists every favorited live photo, unpaginated like Trash
func (a *API) Favorites(c *gin.Context) {
	a.listPhotos(c, -1, -1, "is_deleted = ? AND is_favorite = ?", false, true)
}

func (a *API) listPhotos(c *gin.Context, limit, offset int, cond string, condArgs ...any) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var photos []model.Photo

	err := a.DB.
		Where("user_id = ?", userID).
		Where(cond, condArgs...).
		Order("upload_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list photos", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	items := make([]galleryItem, 0, len(photos))
	for i := range photos {
		items = append(items, a.toGalleryItem(c, &photos[i]))
	}

	c.JSON(http.StatusOK, items)
}

func paginationParams(c *gin.Context, requestID string) (limit, offset int, ok bool) {
	limit = 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "limit must be an integer between 1 and 100",
				"requestID": requestID,
			})
			return 0, 0, false
		}
		limit = v
	}

	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "offset must be a non-negative integer",
				"requestID": requestID,
			})
			return 0, 0, false
		}
		offset = v
	}

	return limit, offset, true
}

func (a *API) toGalleryItem(c *gin.Context, photo *model.Photo) galleryItem {
	item := galleryItem{
		ID:           photo.ID,
		Filename:     photo.Filename,
		Caption:      photo.Caption,
		UploadDate:   photo.UploadDate,
		FileURL:      "/storage/fetch/" + photo.ID,
		ThumbnailURL: "/storage/fetch/thumbnail/" + photo.ID,
		IsDeleted:    photo.IsDeleted,
		IsFavorite:   photo.IsFavorite,
		SizeBytes:    photo.SizeBytes,
	}

	if photo.ExifData != nil {
		if err := json.Unmarshal([]byte(*photo.ExifData), &item.ExifData); err != nil {
			zap.L().Warn("Failed to decode stored EXIF data", zap.String("photo_id", photo.ID), zap.Error(err))
		}
	}

	// Rows written before sizes were cached at upload time fall back to
	// a storage lookup
	if item.SizeBytes == 0 {
		size, err := a.Sizes.Get(c.Request.Context(), photo.FilePath)
		if err != nil {
			zap.L().Warn("Failed to look up object size", zap.String("key", photo.FilePath), zap.Error(err))
		} else {
			item.SizeBytes = size
		}
	}

	return item
}

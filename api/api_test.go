package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/StrixzIV/adv-compro-finals/config"
	"github.com/StrixzIV/adv-compro-finals/db"
	"github.com/StrixzIV/adv-compro-finals/model"
	"github.com/StrixzIV/adv-compro-finals/security"
	"github.com/StrixzIV/adv-compro-finals/service"
	"github.com/StrixzIV/adv-compro-finals/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestAPI wires a full API against an in-memory database and object
// store, with every route registered
func newTestAPI(t *testing.T) (*API, *storage.Memory) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	mem := storage.NewMemory()

	cfg := &config.Config{
		LogLevel:       "error",
		Port:           8000,
		RequestLogPath: filepath.Join(t.TempDir(), "requests.log"),
		HostURL:        "http://localhost:3000",
		APIURL:         "http://localhost:8000",
		JWTSecret:      "test-secret",
		TokenTTL:       30 * time.Minute,
		MaxUploadSize:  50 << 20,
	}

	a := &API{
		Cfg:      cfg,
		DB:       conn,
		Router:   gin.New(),
		Argon:    security.NewArgon(),
		Tokens:   security.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Store:    mem,
		Sizes:    storage.NewSizeCache(nil, mem),
		Uploader: service.NewUploader(mem),
	}
	a.RegisterRoutes()

	return a, mem
}

func seedUser(t *testing.T, a *API, username, email, role string) *model.User {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword("hunter22")
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, a.DB.Create(user).Error)

	return user
}

func bearerFor(t *testing.T, a *API, user *model.User) string {
	t.Helper()

	token, err := a.Tokens.Make(user.ID, user.Role)
	require.NoError(t, err)

	return "Bearer " + token
}

// seedPhoto inserts a photo row and its backing objects
func seedPhoto(t *testing.T, a *API, mem *storage.Memory, userID string, deleted, favorite bool, uploadedAt time.Time) *model.Photo {
	t.Helper()

	photoID := uuid.NewString()
	key := service.ObjectKey(userID, photoID, "jpeg")

	content := []byte("image bytes for " + photoID)
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, key, bytes.NewReader(content), int64(len(content)), "image/jpeg"))
	require.NoError(t, mem.Put(ctx, service.ThumbnailKey(userID, photoID), bytes.NewReader([]byte("thumb")), 5, "image/jpeg"))

	photo := &model.Photo{
		ID:         photoID,
		UserID:     userID,
		FilePath:   key,
		Filename:   photoID + ".jpeg",
		UploadDate: uploadedAt,
		SizeBytes:  int64(len(content)),
		IsDeleted:  deleted,
		IsFavorite: favorite,
	}
	require.NoError(t, a.DB.Create(photo).Error)

	return photo
}

func doRequest(t *testing.T, a *API, method, target, auth string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func doJSON(t *testing.T, a *API, method, target, auth string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	return doRequest(t, a, method, target, auth, bytes.NewReader(raw), "application/json")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

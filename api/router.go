// Package api contains all endpoints available
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/StrixzIV/adv-compro-finals/config"
	"github.com/StrixzIV/adv-compro-finals/db"
	"github.com/StrixzIV/adv-compro-finals/middleware"
	"github.com/StrixzIV/adv-compro-finals/security"
	"github.com/StrixzIV/adv-compro-finals/service"
	"github.com/StrixzIV/adv-compro-finals/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var reconcileNow = pflag.Bool("reconcile-now", false, "Runs a reconciliation sweep at startup")

var cacheStore = persist.NewMemoryStore(time.Minute)

type API struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Router   *gin.Engine
	Argon    *security.ArgonHash
	Tokens   *security.Tokens
	Store    storage.ObjectStore
	Sizes    *storage.SizeCache
	Uploader *service.Uploader
}

func NewRouter(cfg *config.Config) (*API, error) {
	a := &API{
		Cfg:    cfg,
		Argon:  security.NewArgon(),
		Tokens: security.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
	}

	conn, err := db.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = conn

	makeLogger(cfg.LogLevel)

	s3, err := storage.NewS3(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.Store = s3

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	a.Sizes = storage.NewSizeCache(rdb, a.Store)
	a.Uploader = service.NewUploader(a.Store)

	a.Router = gin.New()
	a.RegisterRoutes()

	service.ResetTokenCleanup(5*time.Minute, a.DB)

	if cfg.ReconcileSchedule != "" {
		if _, err := service.StartReconciler(cfg.ReconcileSchedule, a.DB, a.Store); err != nil {
			return nil, fmt.Errorf("failed to schedule reconciliation sweep, %w", err)
		}
	}

	if *reconcileNow {
		go service.ReconcileOnce(context.Background(), a.DB, a.Store)
	}

	return a, nil
}

// RegisterRoutes attaches middleware and every endpoint to a.Router. It
// is separate from NewRouter so tests can wire an API by hand
func (a *API) RegisterRoutes() {
	router := a.Router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{a.Cfg.HostURL},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		middleware.NewRequestLogMiddleware(a.Cfg.RequestLogPath),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(a.Tokens, a.DB)
	authLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	})

	// GET /healthcheck/ping		-> Used to check if the server is alive
	router.GET("/healthcheck/ping", a.Ping)

	auth := router.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /auth/register			-> Registers a new user
		auth.POST("/register", authLimiter, a.AuthRegister)

		// POST /auth/login			-> Logs in a user and returns a bearer token
		auth.POST("/login", authLimiter, a.AuthLogin)

		// GET /auth/userdata			-> Returns the caller's profile
		auth.GET("/userdata", jwt, a.AuthUserdata)

		// POST /auth/request-password-reset	-> Mails a single-use reset token
		auth.POST("/request-password-reset", authLimiter, a.RequestPasswordReset)

		// POST /auth/reset-password		-> Consumes a reset token
		auth.POST("/reset-password", authLimiter, a.ResetPassword)
	}

	oauth := router.Group("/oauth")
	{
		// GET /oauth/redirect			-> 302 to Google's consent screen
		oauth.GET("/redirect", a.OAuthRedirect)

		// GET /oauth/callback			-> Exchanges the code, 302 back to the client
		oauth.GET("/callback", a.OAuthCallback)
	}

	st := router.Group("/storage", jwt)
	{
		// POST /storage/upload/photo		-> Uploads a new photo
		st.POST("/upload/photo", middleware.BodySizeLimiter(a.Cfg.MaxUploadSize), a.PhotoUpload)

		// GET /storage/fetch/:photoID		-> Streams the original bytes
		st.GET("/fetch/:photoID", a.PhotoFetch)

		// GET /storage/fetch/thumbnail/:photoID -> Streams the thumbnail
		st.GET("/fetch/thumbnail/:photoID", a.ThumbnailFetch)

		// GET /storage/gallery			-> Paginated non-deleted photos
		st.GET("/gallery", a.Gallery)

		// GET /storage/trash			-> Soft-deleted photos
		st.GET("/trash", a.Trash)

		// GET /storage/favorites		-> Favorite, non-deleted photos
		st.GET("/favorites", a.Favorites)

		// DELETE /storage/delete/:photoID	-> Hard delete, bytes and metadata
		st.DELETE("/delete/:photoID", a.PhotoDelete)

		// DELETE /storage/soft-delete/:photoID	-> Moves a photo to the trash
		st.DELETE("/soft-delete/:photoID", a.PhotoSoftDelete)

		// POST /storage/restore/:photoID	-> Pulls a photo back out of the trash
		st.POST("/restore/:photoID", a.PhotoRestore)

		// DELETE /storage/clear-trash		-> Hard-deletes everything in the trash
		st.DELETE("/clear-trash", a.ClearTrash)

		// POST /storage/favorite/:photoID	-> Marks a photo as favorite
		st.POST("/favorite/:photoID", a.PhotoFavorite)

		// DELETE /storage/favorite/:photoID	-> Unmarks a favorite
		st.DELETE("/favorite/:photoID", a.PhotoUnfavorite)
	}

	albums := router.Group("/albums", jwt, middleware.BodySizeLimiter(1<<20))
	{
		// POST /albums				-> Creates an album
		albums.POST("", a.AlbumCreate)

		// GET /albums				-> Lists the caller's albums
		albums.GET("", a.AlbumList)

		// GET /albums/:albumID			-> Album details with its photos
		albums.GET("/:albumID", a.AlbumDetail)

		// POST /albums/:albumID/add-photos	-> Adds photos, duplicates ignored
		albums.POST("/:albumID/add-photos", a.AlbumAddPhotos)

		// DELETE /albums/:albumID/remove-photo/:photoID -> Unlinks one photo
		albums.DELETE("/:albumID/remove-photo/:photoID", a.AlbumRemovePhoto)

		// DELETE /albums/:albumID		-> Deletes the album, links cascade
		albums.DELETE("/:albumID", a.AlbumDelete)
	}

	// GET /dashboard			-> Aggregate stats, admins only
	router.GET("/dashboard", jwt, middleware.RequireAdmin(), cacheFor(30), a.Dashboard)
}

func makeLogger(level string) {
	cfg := zap.NewDevelopmentConfig()

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}

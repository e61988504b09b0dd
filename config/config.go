// Package config reads the config file and environment and validates
// everything the app needs before it starts serving
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Config is built once in Setup and passed by reference. Nothing mutates
// it after startup
type Config struct {
	LogLevel       string
	Port           int
	RequestLogPath string

	// Frontend base URL, used for CORS and OAuth redirects
	HostURL string
	// Public base URL of this API, used for the OAuth callback
	APIURL string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
	TokenTTL  time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string

	RedisAddr string

	MailHost     string
	MailPort     int
	MailSender   string
	MailPassword string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string

	MaxUploadSize int64

	ReconcileSchedule string
}

// Setup prepares everything config-related so that the app can start
// working. It returns an error if something is critically wrong and the
// application can't run because of that.
func Setup() (*Config, error) {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")
	v.BindEnv("app.request_log_path", "app_request_log_path")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.url", "host_url")
	v.BindEnv("host.api_url", "host_api_url")

	v.BindEnv("db.host", "postgres_host")
	v.BindEnv("db.port", "postgres_port")
	v.BindEnv("db.user", "postgres_user")
	v.BindEnv("db.password", "postgres_password")
	v.BindEnv("db.name", "postgres_db")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("s3.endpoint", "minio_endpoint")
	v.BindEnv("s3.access_key", "minio_root_user")
	v.BindEnv("s3.secret_key", "minio_root_password")
	v.BindEnv("s3.bucket", "minio_bucket")
	v.BindEnv("s3.region", "minio_region")

	v.BindEnv("redis.addr", "redis_addr")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("oauth.client_id", "google_oauth_client_id")
	v.BindEnv("oauth.client_secret", "google_oauth_client_secrets")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("reconcile.schedule", "reconcile_schedule")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.request_log_path", "requests.log")

	v.SetDefault("host.port", 8000)
	v.SetDefault("host.url", "http://localhost:3000")
	v.SetDefault("host.api_url", "http://localhost:8000")

	v.SetDefault("db.host", "db")
	v.SetDefault("db.port", 5432)

	v.SetDefault("jwt.token_ttl_minutes", 30)

	v.SetDefault("s3.bucket", "media")
	v.SetDefault("s3.region", "auto")

	v.SetDefault("oauth.auth_url", "https://accounts.google.com/o/oauth2/v2/auth")
	v.SetDefault("oauth.token_url", "https://oauth2.googleapis.com/token")

	v.SetDefault("upload.max_size", 50)
	v.SetDefault("reconcile.schedule", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return nil, errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return nil, errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		return nil, errors.New("jwt.secret can't be empty")
	}

	if v.GetString("db.user") == "" || v.GetString("db.name") == "" {
		return nil, errors.New("database credentials are missing")
	}

	if v.GetString("s3.endpoint") == "" {
		return nil, errors.New("object storage endpoint can't be empty")
	}

	if v.GetString("s3.access_key") == "" || v.GetString("s3.secret_key") == "" {
		return nil, errors.New("object storage credentials are missing")
	}

	if v.GetInt64("upload.max_size") <= 0 {
		return nil, errors.New("upload.max_size must be bigger than 0")
	}

	return &Config{
		LogLevel:       v.GetString("app.log_level"),
		Port:           v.GetInt("host.port"),
		RequestLogPath: v.GetString("app.request_log_path"),

		HostURL: v.GetString("host.url"),
		APIURL:  v.GetString("host.api_url"),

		DBHost:     v.GetString("db.host"),
		DBPort:     v.GetInt("db.port"),
		DBUser:     v.GetString("db.user"),
		DBPassword: v.GetString("db.password"),
		DBName:     v.GetString("db.name"),

		JWTSecret: v.GetString("jwt.secret"),
		TokenTTL:  time.Duration(v.GetInt("jwt.token_ttl_minutes")) * time.Minute,

		S3Endpoint:  v.GetString("s3.endpoint"),
		S3AccessKey: v.GetString("s3.access_key"),
		S3SecretKey: v.GetString("s3.secret_key"),
		S3Bucket:    v.GetString("s3.bucket"),
		S3Region:    v.GetString("s3.region"),

		RedisAddr: v.GetString("redis.addr"),

		MailHost:     v.GetString("mail.host"),
		MailPort:     v.GetInt("mail.port"),
		MailSender:   v.GetString("mail.sender"),
		MailPassword: v.GetString("mail.password"),

		OAuthClientID:     v.GetString("oauth.client_id"),
		OAuthClientSecret: v.GetString("oauth.client_secret"),
		OAuthAuthURL:      v.GetString("oauth.auth_url"),
		OAuthTokenURL:     v.GetString("oauth.token_url"),

		MaxUploadSize: v.GetInt64("upload.max_size") << 20,

		ReconcileSchedule: v.GetString("reconcile.schedule"),
	}, nil
}

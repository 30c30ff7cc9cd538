// Package config loads server configuration from the environment and builds
// a ready-to-serve blog.Service from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushpk/cryptoblog/pkg/blog"
	"github.com/ayushpk/cryptoblog/pkg/blog/notify"
	repomemory "github.com/ayushpk/cryptoblog/pkg/blog/repo/memory"
	repopg "github.com/ayushpk/cryptoblog/pkg/blog/repo/postgres"
	fsstorage "github.com/ayushpk/cryptoblog/pkg/blog/storage/fs"
	memorystorage "github.com/ayushpk/cryptoblog/pkg/blog/storage/memory"
	s3storage "github.com/ayushpk/cryptoblog/pkg/blog/storage/s3"
)

// ServerConfig represents server configuration for the cryptoblog service.
//
// Environment variable mapping:
//
//	PORT           - Server port (default: "8080")
//	ENVIRONMENT    - Runtime environment (default: "development")
//	DATABASE_URL   - "memory" or a postgresql:// connection string
//	STORAGE_URL    - Storage connection string (one of):
//	                 - "memory://" - In-memory storage (default)
//	                 - "file:///path/to/data" - Filesystem storage
//	                 - "s3://bucket?region=us-east-1&endpoint=..." - S3 storage
//	SESSION_SECRET - HMAC secret for session tokens (required)
//	SESSION_TTL    - Session token lifetime (default: 168h)
//	UPLOAD_TIMEOUT - Per-upload deadline (default: 30s)
//	SMTP_HOST/SMTP_PORT/SMTP_USERNAME/SMTP_PASSWORD/SMTP_FROM/CONTACT_EMAIL
//	               - Contact-query notification mail; disabled when SMTP_HOST
//	                 is empty
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:"memory"`
	StorageURL  string `env:"STORAGE_URL" env-default:"memory://"`
	FSURLPrefix string `env:"FS_URL_PREFIX" env-default:"/files"`

	SessionSecret string        `env:"SESSION_SECRET" env-required:"true"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"168h"`
	UploadTimeout time.Duration `env:"UPLOAD_TIMEOUT" env-default:"30s"`

	SMTPHost     string `env:"SMTP_HOST" env-default:""`
	SMTPPort     string `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME" env-default:""`
	SMTPPassword string `env:"SMTP_PASSWORD" env-default:""`
	SMTPFrom     string `env:"SMTP_FROM" env-default:""`
	ContactEmail string `env:"CONTACT_EMAIL" env-default:""`
}

// LoadServerConfig reads server configuration from environment variables
func LoadServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.SessionSecret == "" {
		return errors.New("session secret is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}

// Logger builds the process logger. Production gets JSON output, everything
// else human-readable text.
func (c *ServerConfig) Logger() *slog.Logger {
	if c.Environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TokenAuth builds the session token codec from the configured secret
func (c *ServerConfig) TokenAuth() *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(c.SessionSecret), nil)
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(tokens *jwtauth.JWTAuth, logger *slog.Logger) (blog.Service, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	blobs, err := c.buildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	options := []blog.Option{
		blog.WithRepository(repo),
		blog.WithBlobStore(blobs),
		blog.WithTokenAuth(tokens),
		blog.WithLogger(logger),
		blog.WithSessionTTL(c.SessionTTL),
		blog.WithUploadTimeout(c.UploadTimeout),
	}

	if c.SMTPHost != "" {
		notifier, err := notify.NewSMTP(notify.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
			From:     c.SMTPFrom,
			To:       c.ContactEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build notifier: %w", err)
		}
		options = append(options, blog.WithNotifier(notifier))
	}

	return blog.New(options...)
}

// buildRepository creates a Repository based on DATABASE_URL
func (c *ServerConfig) buildRepository() (blog.Repository, error) {
	dbURL := c.DatabaseURL
	if dbURL == "" || dbURL == "memory" {
		return repomemory.New(), nil
	}

	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		pool, err := pgxpool.New(context.Background(), dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	}

	return nil, fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

// buildBlobStore creates a BlobStore based on STORAGE_URL
func (c *ServerConfig) buildBlobStore() (blog.BlobStore, error) {
	storageURL := c.StorageURL
	if storageURL == "" || storageURL == "memory" || storageURL == "memory://" {
		return memorystorage.New(), nil
	}

	u, err := url.Parse(storageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return nil, errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return fsstorage.New(fsstorage.Config{
			BaseDir:   u.Path,
			URLPrefix: c.FSURLPrefix,
		})

	case "s3":
		if u.Host == "" {
			return nil, errors.New("S3 bucket name cannot be empty in STORAGE_URL")
		}
		query := u.Query()
		cfg := s3storage.Config{
			Bucket:                 u.Host,
			Region:                 query.Get("region"),
			Endpoint:               query.Get("endpoint"),
			AccessKeyID:            os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey:        os.Getenv("AWS_SECRET_ACCESS_KEY"),
			UsePathStyle:           parseBool(query.Get("use_path_style")),
			CreateBucketIfNotExist: parseBool(query.Get("create_bucket_if_not_exist")),
		}
		if cfg.Region == "" {
			cfg.Region = os.Getenv("AWS_REGION")
		}
		return s3storage.New(cfg)

	default:
		return nil, fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", storageURL)
	}
}

func parseBool(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return parsed
}

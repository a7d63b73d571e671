package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
}

type StorageConfig struct {
	Driver           string
	LocalDir         string
	PublicURL        string
	MaxImageBytes    int64
	S3Bucket         string
	S3Region         string
	S3PublicURL      string
	CloudinaryURL    string
	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryDir    string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal      = "local"
	StorageS3         = "s3"
	StorageCloudinary = "cloudinary"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	maxImageMB, err := strconv.ParseInt(getEnv("STORAGE_MAX_IMAGE_MB", "5"), 10, 64)
	if err != nil || maxImageMB <= 0 {
		return nil, errors.New("invalid STORAGE_MAX_IMAGE_MB")
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	port := getEnv("PORT", "5000")

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Categorias API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           port,
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
			RequestTimeout: timeout,
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "categorias"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:  getEnv("DB_SQLITE_PATH", "categorias.db"),
			AutoMigrate: autoMigrate,
		},
		Storage: StorageConfig{
			Driver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
			LocalDir:         getEnv("STORAGE_LOCAL_DIR", "uploads"),
			PublicURL:        strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", "http://localhost:"+port), "/"),
			MaxImageBytes:    maxImageMB << 20,
			S3Bucket:         getEnv("S3_BUCKET", ""),
			S3Region:         getEnv("S3_REGION", os.Getenv("AWS_REGION")),
			S3PublicURL:      strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
			CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
			CloudinaryName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryKey:    getEnv("CLOUDINARY_API_KEY", ""),
			CloudinarySecret: getEnv("CLOUDINARY_API_SECRET", ""),
			CloudinaryDir:    getEnv("CLOUDINARY_UPLOAD_FOLDER", "categorias"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return errors.New("missing database password")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return errors.New("missing s3 bucket")
		}
		if c.Storage.S3PublicURL == "" {
			c.Storage.S3PublicURL = fmt.Sprintf("https://%s.s3.amazonaws.com", c.Storage.S3Bucket)
		}
	case StorageCloudinary:
		if c.Storage.CloudinaryURL == "" &&
			(c.Storage.CloudinaryName == "" || c.Storage.CloudinaryKey == "" || c.Storage.CloudinarySecret == "") {
			return errors.New("missing cloudinary url or cloud name")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

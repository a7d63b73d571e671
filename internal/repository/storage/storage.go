package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/LuigyJJ/invfarm2/pkg/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageStorage persists uploaded category images and hands back a reference
// (URL) that is stored on the category.
type ImageStorage interface {
	UploadImage(ctx context.Context, r io.Reader, fileName, contentType string) (string, error)
	DeleteImage(ctx context.Context, ref string) error
}

// New builds the storage backend selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (ImageStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageLocal:
		return NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicURL)
	case config.StorageS3:
		return NewS3Storage(ctx, cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.S3PublicURL)
	case config.StorageCloudinary:
		return NewCloudinaryStorage(cfg.Storage)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// objectName returns a collision free name. The extension follows the
// sniffed content type; the client's file name never reaches the store.
func objectName(contentType string) string {
	return uuid.NewString() + extensionFor(contentType)
}

// extensionFor maps an image content type to its canonical extension.
// Anything that is not an image gets no extension.
func extensionFor(contentType string) string {
	if !strings.HasPrefix(contentType, "image/") {
		return ""
	}

	mt := mimetype.Lookup(contentType)
	if mt == nil {
		return ""
	}

	return mt.Extension()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	config "github.com/talesoul/talesoul-api/configs"
)

var ErrNotConfigured = errors.New("file storage is not configured")

// FileStorage stores a binary payload under folder/name and returns its public URL.
type FileStorage interface {
	Upload(ctx context.Context, r io.Reader, folder, name, contentType string) (string, error)
}

// New picks the storage driver named by STORAGE_DRIVER.
func New(cfg *config.Config) (FileStorage, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "cloudinary":
		if cfg.CloudinaryURL == "" {
			return Disabled{}, nil
		}
		return NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	case "spaces", "s3":
		if cfg.SpacesBucket == "" {
			return Disabled{}, nil
		}
		return NewSpacesStorage(SpacesConfig{
			AccessKey: cfg.SpacesKey,
			SecretKey: cfg.SpacesSecret,
			Bucket:    cfg.SpacesBucket,
			Region:    cfg.SpacesRegion,
			Endpoint:  cfg.SpacesEndpoint,
			CDNURL:    cfg.SpacesCDNURL,
		})
	case "", "none":
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Disabled rejects every upload. It is used when no driver is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string, string, string) (string, error) {
	return "", ErrNotConfigured
}

// ObjectKey joins a folder and a file name into a storage key.
func ObjectKey(folder, name string) string {
	return strings.TrimPrefix(path.Join(folder, name), "/")
}

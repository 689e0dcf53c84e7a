package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bcplughub/config"
	"bcplughub/utils"

	"go.uber.org/zap"
)

// StorageService stores public objects such as invite posters.
type StorageService interface {
	// Upload writes r under objectPath and returns a URL the client can load.
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

const (
	BackendCloudinary = "cloudinary"
	BackendFirebase   = "firebase"
	BackendNone       = "none"
)

// NewFromConfig selects the backend named by STORAGE_BACKEND. Without a
// configured backend images are returned inline as data URLs.
func NewFromConfig(ctx context.Context) (StorageService, error) {
	logger := utils.GetLogger()
	backend := strings.ToLower(strings.TrimSpace(config.AppConfig.StorageBackend))
	switch backend {
	case BackendCloudinary:
		cld, err := utils.Cloudinary()
		if err != nil {
			return nil, err
		}
		logger.Info("storage: using cloudinary", zap.String("cloud", config.AppConfig.CloudinaryCloudName))
		return NewCloudinaryStorage(cld), nil
	case BackendFirebase:
		s, err := NewFirebaseStorage(ctx, config.AppConfig.FirebaseCredentialsFile, config.AppConfig.FirebaseBucket)
		if err != nil {
			return nil, err
		}
		logger.Info("storage: using firebase", zap.String("bucket", config.AppConfig.FirebaseBucket))
		return s, nil
	case "", BackendNone:
		logger.Info("storage: no backend configured, returning inline images")
		return DataURLStorage{}, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}
}

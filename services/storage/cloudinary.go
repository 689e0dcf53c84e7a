package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage uploads to a Cloudinary media library.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cld *cloudinary.Cloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{cld: cld}
}

// splitObjectPath maps "a/b/name.png" to folder "a/b" and public id "name".
func splitObjectPath(objectPath string) (folder, publicID string) {
	folder, file := path.Split(objectPath)
	folder = strings.TrimSuffix(folder, "/")
	publicID = strings.TrimSuffix(file, path.Ext(file))
	return folder, publicID
}

func (s *CloudinaryStorage) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	folder, publicID := splitObjectPath(objectPath)
	params := uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	}
	result, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary: failed to upload %s: %w", objectPath, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: no URL returned for %s", objectPath)
	}
	return result.SecureURL, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, objectPath string) error {
	folder, publicID := splitObjectPath(objectPath)
	if folder != "" {
		publicID = folder + "/" + publicID
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary: failed to delete %s: %w", objectPath, err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// FirebaseStorage uploads public objects to a Firebase Storage bucket.
type FirebaseStorage struct {
	client     *storage.Client
	bucketName string
}

func NewFirebaseStorage(ctx context.Context, credentialsFile, bucketName string) (*FirebaseStorage, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("firebase storage: FIREBASE_BUCKET is not set")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &FirebaseStorage{client: client, bucketName: bucketName}, nil
}

func (s *FirebaseStorage) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	w := s.client.Bucket(s.bucketName).Object(objectPath).NewWriter(ctx)
	w.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to copy %s to storage: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return PublicURL(s.bucketName, objectPath), nil
}

func (s *FirebaseStorage) Delete(ctx context.Context, objectPath string) error {
	if err := s.client.Bucket(s.bucketName).Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectPath, err)
	}
	return nil
}

func (s *FirebaseStorage) Close() error {
	return s.client.Close()
}

// PublicURL is the download URL of a publicly readable object.
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", bucket, url.QueryEscape(objectPath))
}

package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// DataURLStorage keeps nothing and returns the content as a data URL.
type DataURLStorage struct{}

func (DataURLStorage) Upload(_ context.Context, _ string, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(b)), nil
}

func (DataURLStorage) Delete(context.Context, string) error { return nil }

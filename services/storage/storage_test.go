package storage

import (
	"context"
	"strings"
	"testing"

	"bcplughub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURLStorage(t *testing.T) {
	url, err := DataURLStorage{}.Upload(context.Background(), "event-invites/x.png", "image/png", strings.NewReader("hi"))
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGk=", url)
	assert.NoError(t, DataURLStorage{}.Delete(context.Background(), "event-invites/x.png"))
}

func TestSplitObjectPath(t *testing.T) {
	folder, id := splitObjectPath("event-invites/1741960800_Mods_Party.png")
	assert.Equal(t, "event-invites", folder)
	assert.Equal(t, "1741960800_Mods_Party", id)

	folder, id = splitObjectPath("poster.png")
	assert.Equal(t, "", folder)
	assert.Equal(t, "poster", id)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://firebasestorage.googleapis.com/v0/b/bcplughub.appspot.com/o/event-invites%2Fa.png?alt=media",
		PublicURL("bcplughub.appspot.com", "event-invites/a.png"))
}

func TestNewFromConfig(t *testing.T) {
	previous := config.AppConfig.StorageBackend
	defer func() { config.AppConfig.StorageBackend = previous }()

	config.AppConfig.StorageBackend = "none"
	store, err := NewFromConfig(context.Background())
	require.NoError(t, err)
	assert.IsType(t, DataURLStorage{}, store)

	config.AppConfig.StorageBackend = "s3"
	_, err = NewFromConfig(context.Background())
	assert.Error(t, err)
}

package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	base := t.TempDir()
	store, err := storage.NewLocalStorage(base)
	require.NoError(t, err)
	ctx := context.Background()

	content := "fake mp3 bytes"
	path, size, err := store.Upload(ctx, "abcd1234.mp3", "audio/mpeg", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	// Two-level fan-out derived from the name
	assert.Equal(t, filepath.Join("ab", "cd", "abcd1234.mp3"), path)
	_, err = os.Stat(filepath.Join(base, path))
	require.NoError(t, err)

	rc, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Download(ctx, path)
	assert.Error(t, err)

	// Deleting a missing file is a no-op
	assert.NoError(t, store.Delete(ctx, path))
}

func TestLocalStorage_NameTooShort(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Upload(context.Background(), "ab", "audio/mpeg", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestNewStorage_Modes(t *testing.T) {
	logger := zap.NewNop()

	t.Run("local", func(t *testing.T) {
		store, err := storage.NewStorage(&config.StorageConfig{
			Mode:          "local",
			LocalBasePath: t.TempDir(),
		}, logger)
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("azure without connection string", func(t *testing.T) {
		_, err := storage.NewStorage(&config.StorageConfig{Mode: "azure"}, logger)
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, logger)
		assert.Error(t, err)
	})
}

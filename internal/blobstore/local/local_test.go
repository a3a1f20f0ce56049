package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("fake png data")

	filename, err := store.Save(ctx, "detail.PNG", bytes.NewReader(data))
	require.NoError(t, err)
	assert.NotEmpty(t, filename)
	assert.True(t, strings.HasSuffix(filename, ".png"), "extension should be normalized: %s", filename)

	reader, mimeType, err := store.Get(ctx, filename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", mimeType)

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalBlobStoreUniqueNames(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	a, err := store.Save(ctx, "same.jpg", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	b, err := store.Save(ctx, "same.jpg", bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalBlobStoreDelete(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	filename, err := store.Save(ctx, "gone.jpg", bytes.NewReader([]byte("bye")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, filename))

	_, _, err = store.Get(ctx, filename)
	assert.Error(t, err)
}

func TestLocalBlobStoreNotFound(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "nonexistent.jpg")
	assert.Error(t, err)
}

func TestLocalBlobStorePathTraversal(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

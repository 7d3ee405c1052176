package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func newTestMedia(t *testing.T) (*Media, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	return NewMedia(store, "http://cdn.test/media/"), root
}

func TestMedia_SaveOpenRemove(t *testing.T) {
	media, root := newTestMedia(t)
	ctx := context.Background()

	key, err := media.Save(ctx, "products", &Upload{Filename: "../../ring photo.png", Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, "-ring_photo.png"))
	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(key)))

	obj, err := media.Open(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)

	assert.Equal(t, "http://cdn.test/media/"+key, media.URL(key))
	assert.Empty(t, media.URL(""))

	require.NoError(t, media.Remove(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, media.Remove(ctx, key))
	_, err = media.Open(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMedia_OpenRejectsTraversal(t *testing.T) {
	media, _ := newTestMedia(t)
	for _, key := range []string{"", "/etc/passwd", "../secret", "products/../../x", "a//b", `a\b`} {
		_, err := media.Open(context.Background(), key)
		assert.ErrorIs(t, err, ErrObjectNotFound, key)
	}
}

func TestUpload_IsImage(t *testing.T) {
	assert.True(t, (&Upload{Data: pngHeader}).IsImage())
	assert.False(t, (&Upload{Data: []byte("just some text")}).IsImage())
	assert.False(t, (&Upload{}).IsImage())

	var nilUpload *Upload
	assert.False(t, nilUpload.IsImage())
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ring.jpg", sanitizeFilename("ring.jpg"))
	assert.Equal(t, "passwd", sanitizeFilename("/etc/passwd"))
	assert.Equal(t, "gold_ring.jpg", sanitizeFilename("gold ring.jpg"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
	assert.Equal(t, "unnamed", sanitizeFilename(".."))
}

package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savethedate_backend/internals/helpers/storage/storagetest"
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	svc := NewService(store)
	svc.WebP = WebPOptions{MaxW: 64, MaxH: 64, Quality: 70, ThumbW: 16, ThumbH: 16}
	return svc, store
}

func TestUploadImageStoresWebPAndThumbnail(t *testing.T) {
	svc, store := newTestService()
	fh := storagetest.FileHeader(t, "Beach Party.png", "image/png", storagetest.PNG(t, 200, 100))

	url, thumb, err := svc.UploadImage(context.Background(), "events/abc/photos", fh)
	require.NoError(t, err)
	require.NotEmpty(t, thumb)

	key, err := store.KeyFromURL(url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "savethedate/events/abc/photos/beach-party_"))
	assert.True(t, strings.HasSuffix(key, ".webp"))
	assert.Equal(t, "image/webp", store.Types[key])
	assert.Equal(t, 2, store.Len())

	decoded, err := decodeImage(store.Objects[key], key)
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	svc, store := newTestService()
	fh := storagetest.FileHeader(t, "notes.txt", "text/plain", []byte("hello"))

	_, _, err := svc.UploadImage(context.Background(), "photos", fh)
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, fe.Code)
	assert.Zero(t, store.Len())
}

func TestUploadRawAndDelete(t *testing.T) {
	svc, store := newTestService()
	fh := storagetest.FileHeader(t, "teaser.mp4", "video/mp4", []byte("fake video bytes"))

	url, key, ct, err := svc.UploadRaw(context.Background(), "evt/videos", fh)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", ct)
	assert.True(t, store.Has(key))

	require.NoError(t, svc.DeleteByPublicURL(context.Background(), url))
	assert.False(t, store.Has(key))

	err = svc.DeleteByPublicURL(context.Background(), store.PublicURL("other/file.png"))
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}

func TestUploadRawRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService()
	fh := storagetest.FileHeader(t, "archive.zip", "application/zip", []byte("PK"))

	_, _, _, err := svc.UploadRaw(context.Background(), "x", fh)
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, fe.Code)
}

func TestKeyFromURL(t *testing.T) {
	k, err := keyFromURL("https://cdn.example.com/savethedate/a/b.webp", "https://cdn.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "savethedate/a/b.webp", k)

	k, err = keyFromURL("https://bucket.oss-ap.aliyuncs.com/savethedate/x.png", "")
	require.NoError(t, err)
	assert.Equal(t, "savethedate/x.png", k)

	_, err = keyFromURL("", "")
	assert.Error(t, err)
}

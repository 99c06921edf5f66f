package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"savethedate_backend/internals/databases/testdb"
	eventModel "savethedate_backend/internals/features/events/events/model"
	"savethedate_backend/internals/features/gallery/photos/model"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/helpers/storage"
	"savethedate_backend/internals/helpers/storage/storagetest"
)

var ctx = context.Background()

func seedEvent(t *testing.T, db *gorm.DB, config string) *eventModel.EventModel {
	t.Helper()
	ev := &eventModel.EventModel{
		Slug: uuid.NewString()[:8], Type: "wedding", Title: "Photos",
		EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Pack:      eventModel.PackPremium,
		Config:    datatypes.JSON(config),
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func newBlobs() (*storage.Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	svc := storage.NewService(store)
	svc.WebP = storage.WebPOptions{MaxW: 64, MaxH: 64, Quality: 70, ThumbW: 16, ThumbH: 16}
	return svc, store
}

func upload(t *testing.T, db *gorm.DB, blobs storage.BlobService, eventID uuid.UUID, by string) (*model.PhotoModel, error) {
	fh := storagetest.FileHeader(t, "souvenir.png", "image/png", storagetest.PNG(t, 120, 80))
	return UploadPhoto(ctx, db, blobs, eventID, UploadInput{UploadedBy: helper.StrPtr(by), Caption: helper.StrPtr(" Danse "), File: fh})
}

func TestUploadPhotoGates(t *testing.T) {
	db := testdb.New(t)
	blobs, store := newBlobs()

	off := seedEvent(t, db, `{}`)
	_, err := upload(t, db, blobs, off.ID, "Dana")
	assert.Equal(t, fiber.StatusForbidden, helper.ErrorCode(err))

	closed := seedEvent(t, db, `{"modules":{"gallery":{"enabled":true,"allow_upload":false}}}`)
	_, err = upload(t, db, blobs, closed.ID, "Dana")
	assert.Equal(t, fiber.StatusForbidden, helper.ErrorCode(err))

	assert.Zero(t, store.Len())
}

func TestUploadPhotoStoresWebPAndQuota(t *testing.T) {
	db := testdb.New(t)
	blobs, store := newBlobs()
	ev := seedEvent(t, db, `{"modules":{"gallery":{"enabled":true,"max_photos_per_guest":2}}}`)

	p, err := upload(t, db, blobs, ev.ID, "Dana")
	require.NoError(t, err)
	assert.True(t, p.Approved)
	assert.Equal(t, "Danse", *p.Caption)
	assert.True(t, strings.HasSuffix(p.URL, ".webp"))
	require.NotNil(t, p.ThumbnailURL)
	assert.Contains(t, p.URL, ev.ID.String()+"/photos/")

	_, err = upload(t, db, blobs, ev.ID, "Dana")
	require.NoError(t, err)
	_, err = upload(t, db, blobs, ev.ID, "Dana")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, helper.ErrorCode(err))
	assert.Contains(t, err.Error(), "2")

	_, err = upload(t, db, blobs, ev.ID, "Noam")
	require.NoError(t, err)
	assert.Equal(t, 6, store.Len())
}

func TestModerationListApproveDelete(t *testing.T) {
	db := testdb.New(t)
	blobs, store := newBlobs()
	ev := seedEvent(t, db, `{"modules":{"gallery":{"enabled":true,"moderation":true}}}`)

	p, err := upload(t, db, blobs, ev.ID, "Dana")
	require.NoError(t, err)
	assert.False(t, p.Approved)

	rows, total, err := ListPhotos(ctx, db, ev.ID, true, 0, 50)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)

	rows, total, err = ListPhotos(ctx, db, ev.ID, false, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)

	approved, err := ApprovePhoto(ctx, db, ev.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	_, total, err = ListPhotos(ctx, db, ev.ID, true, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = ApprovePhoto(ctx, db, uuid.New(), p.ID)
	assert.Equal(t, fiber.StatusNotFound, helper.ErrorCode(err))

	require.NoError(t, DeletePhoto(ctx, db, blobs, ev.ID, p.ID))
	assert.Zero(t, store.Len())
	assert.Equal(t, fiber.StatusNotFound, helper.ErrorCode(DeletePhoto(ctx, db, blobs, ev.ID, p.ID)))
}

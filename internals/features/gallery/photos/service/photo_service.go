package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/gallery/photos/model"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/helpers/storage"
)

var (
	ErrPhotoNotFound   = fiber.NewError(fiber.StatusNotFound, "photo not found")
	ErrGalleryDisabled = fiber.NewError(fiber.StatusForbidden, "gallery module is not enabled")
	ErrUploadDisabled  = fiber.NewError(fiber.StatusForbidden, "photo upload is not allowed")
)

type UploadInput struct {
	UploadedBy *string
	Caption    *string
	File       *multipart.FileHeader
}

func FindPhoto(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.PhotoModel, error) {
	var p model.PhotoModel
	if err := db.WithContext(ctx).First(&p, "id = ? AND event_id = ?", id, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("load photo: %w", err)
	}
	return &p, nil
}

// UploadPhoto checks the gallery settings, stores the WebP rendition and records the photo.
func UploadPhoto(ctx context.Context, db *gorm.DB, blobs storage.BlobService, eventID uuid.UUID, in UploadInput) (*model.PhotoModel, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	gallery := ev.Modules().Gallery
	if !gallery.Enabled {
		return nil, ErrGalleryDisabled
	}
	if !gallery.AllowUpload {
		return nil, ErrUploadDisabled
	}
	if in.File == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	uploadedBy := helper.TrimPtr(in.UploadedBy)
	if gallery.MaxPhotosPerGuest > 0 && uploadedBy != nil {
		var n int64
		if err := db.WithContext(ctx).Model(&model.PhotoModel{}).
			Where("event_id = ? AND uploaded_by = ?", eventID, *uploadedBy).
			Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count photos: %w", err)
		}
		if n >= int64(gallery.MaxPhotosPerGuest) {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("maximum %d photos per guest reached", gallery.MaxPhotosPerGuest))
		}
	}

	url, thumb, err := blobs.UploadImage(ctx, path.Join(eventID.String(), "photos"), in.File)
	if err != nil {
		return nil, err
	}

	p := &model.PhotoModel{
		EventID:    eventID,
		UploadedBy: uploadedBy,
		URL:        url,
		Caption:    helper.TrimPtr(in.Caption),
		Approved:   !gallery.Moderation,
	}
	if thumb != "" {
		p.ThumbnailURL = &thumb
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		removeBlobs(ctx, blobs, url, thumb)
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

func ListPhotos(ctx context.Context, db *gorm.DB, eventID uuid.UUID, approvedOnly bool, offset, limit int) ([]model.PhotoModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(&model.PhotoModel{}).Where("event_id = ?", eventID)
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count photos: %w", err)
	}
	var rows []model.PhotoModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list photos: %w", err)
	}
	return rows, total, nil
}

func ApprovePhoto(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.PhotoModel, error) {
	p, err := FindPhoto(ctx, db, eventID, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&model.PhotoModel{}).Where("id = ?", p.ID).Update("approved", true).Error; err != nil {
		return nil, fmt.Errorf("approve photo: %w", err)
	}
	p.Approved = true
	return p, nil
}

// DeletePhoto removes the row, then the stored objects best effort.
func DeletePhoto(ctx context.Context, db *gorm.DB, blobs storage.BlobService, eventID, id uuid.UUID) error {
	p, err := FindPhoto(ctx, db, eventID, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&model.PhotoModel{}, "id = ?", p.ID).Error; err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	thumb := ""
	if p.ThumbnailURL != nil {
		thumb = *p.ThumbnailURL
	}
	removeBlobs(ctx, blobs, p.URL, thumb)
	return nil
}

func removeBlobs(ctx context.Context, blobs storage.BlobService, urls ...string) {
	if blobs == nil {
		return
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := blobs.DeleteByPublicURL(ctx, u); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("url", u).Msg("photo object not deleted")
		}
	}
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/gallery/guestbook/dto"
	"savethedate_backend/internals/features/gallery/guestbook/model"
)

var (
	ErrEntryNotFound     = fiber.NewError(fiber.StatusNotFound, "guestbook entry not found")
	ErrGuestbookDisabled = fiber.NewError(fiber.StatusForbidden, "guestbook module is not enabled")
)

func CreateEntry(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.CreateEntryRequest) (*model.GuestbookEntryModel, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	mod := ev.Modules().Guestbook
	if !mod.Enabled {
		return nil, ErrGuestbookDisabled
	}
	req.Normalize()
	if req.AuthorName == "" || req.Message == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "author_name and message are required")
	}

	e := req.ToModel(eventID, !mod.Moderation)
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("create guestbook entry: %w", err)
	}
	return e, nil
}

func ListEntries(ctx context.Context, db *gorm.DB, eventID uuid.UUID, approvedOnly bool, offset, limit int) ([]model.GuestbookEntryModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(&model.GuestbookEntryModel{}).Where("event_id = ?", eventID)
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count guestbook: %w", err)
	}
	var rows []model.GuestbookEntryModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list guestbook: %w", err)
	}
	return rows, total, nil
}

func ApproveEntry(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.GuestbookEntryModel, error) {
	var e model.GuestbookEntryModel
	if err := db.WithContext(ctx).First(&e, "id = ? AND event_id = ?", id, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("load guestbook entry: %w", err)
	}
	if err := db.WithContext(ctx).Model(&model.GuestbookEntryModel{}).Where("id = ?", e.ID).Update("approved", true).Error; err != nil {
		return nil, fmt.Errorf("approve guestbook entry: %w", err)
	}
	e.Approved = true
	return &e, nil
}

func DeleteEntry(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ? AND event_id = ?", id, eventID).Delete(&model.GuestbookEntryModel{})
	if res.Error != nil {
		return fmt.Errorf("delete guestbook entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

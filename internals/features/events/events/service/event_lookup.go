package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/events/model"
)

var ErrEventNotFound = fiber.NewError(fiber.StatusNotFound, "event not found")

func FindEvent(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.EventModel, error) {
	var ev model.EventModel
	if err := db.WithContext(ctx).First(&ev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	return &ev, nil
}

// FindEventByRef accepts either a UUID or a slug.
func FindEventByRef(ctx context.Context, db *gorm.DB, ref string) (*model.EventModel, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return FindEvent(ctx, db, id)
	}
	var ev model.EventModel
	if err := db.WithContext(ctx).First(&ev, "slug = ?", strings.ToLower(ref)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	return &ev, nil
}

// EnsureEventExists is FindEvent without the row.
func EnsureEventExists(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.EventModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

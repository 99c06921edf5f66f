package service

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/social/chat/dto"
	"savethedate_backend/internals/features/social/chat/model"
)

var ErrMessageNotFound = fiber.NewError(fiber.StatusNotFound, "message not found")

func PostMessage(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.PostMessageRequest) (*model.ChatMessageModel, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}
	req.Normalize()
	if req.SenderName == "" || req.Message == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "sender_name and message are required")
	}
	m := &model.ChatMessageModel{EventID: eventID, SenderName: req.SenderName, Message: req.Message}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// ListMessages returns the newest messages first.
func ListMessages(ctx context.Context, db *gorm.DB, eventID uuid.UUID, offset, limit int) ([]model.ChatMessageModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(&model.ChatMessageModel{}).Where("event_id = ?", eventID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}
	var rows []model.ChatMessageModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	return rows, total, nil
}

func DeleteMessage(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ? AND event_id = ?", id, eventID).Delete(&model.ChatMessageModel{})
	if res.Error != nil {
		return fmt.Errorf("delete message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/social/playlist/dto"
	"savethedate_backend/internals/features/social/playlist/model"
)

var (
	ErrSuggestionNotFound = fiber.NewError(fiber.StatusNotFound, "suggestion not found")
	ErrPlaylistDisabled   = fiber.NewError(fiber.StatusForbidden, "playlist module is not enabled")
)

// Suggest records a song; each guest_name may suggest at most max_suggestions_per_guest songs.
func Suggest(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.CreateSuggestionRequest) (*model.PlaylistSuggestionModel, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	mod := ev.Modules().Playlist
	if !mod.Enabled {
		return nil, ErrPlaylistDisabled
	}
	req.Normalize()
	if req.GuestName == "" || req.SongTitle == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "guest_name and song_title are required")
	}

	var n int64
	if err := db.WithContext(ctx).Model(&model.PlaylistSuggestionModel{}).
		Where("event_id = ? AND guest_name = ?", eventID, req.GuestName).
		Count(&n).Error; err != nil {
		return nil, fmt.Errorf("count suggestions: %w", err)
	}
	if n >= int64(mod.MaxSuggestionsPerGuest) {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("maximum %d suggestions per guest reached", mod.MaxSuggestionsPerGuest))
	}

	s := req.ToModel(eventID)
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	return s, nil
}

func ListSuggestions(ctx context.Context, db *gorm.DB, eventID uuid.UUID, offset, limit int) ([]model.PlaylistSuggestionModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(&model.PlaylistSuggestionModel{}).Where("event_id = ?", eventID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count suggestions: %w", err)
	}
	var rows []model.PlaylistSuggestionModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list suggestions: %w", err)
	}
	return rows, total, nil
}

func DeleteSuggestion(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ? AND event_id = ?", id, eventID).Delete(&model.PlaylistSuggestionModel{})
	if res.Error != nil {
		return fmt.Errorf("delete suggestion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSuggestionNotFound
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	donationModel "savethedate_backend/internals/features/donations/donations/model"
	"savethedate_backend/internals/features/events/events/dto"
	"savethedate_backend/internals/features/events/events/model"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	guestbookModel "savethedate_backend/internals/features/gallery/guestbook/model"
	photoModel "savethedate_backend/internals/features/gallery/photos/model"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
	notificationModel "savethedate_backend/internals/features/notifications/push_notifications/model"
	chatModel "savethedate_backend/internals/features/social/chat/model"
	playlistModel "savethedate_backend/internals/features/social/playlist/model"
)

var ErrSlugTaken = fiber.NewError(fiber.StatusConflict, "slug already exists")

func slugTaken(ctx context.Context, db *gorm.DB, slug string, except uuid.UUID) (bool, error) {
	var n int64
	q := db.WithContext(ctx).Model(&model.EventModel{}).Where("slug = ?", slug)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

func ListEvents(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]model.EventModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.EventModel{})
	if status != "" {
		if !model.IsValidEventStatus(status) {
			return nil, 0, fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	var events []model.EventModel
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Order("event_date DESC").Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func CreateEvent(ctx context.Context, db *gorm.DB, req dto.CreateEventRequest) (*model.EventModel, error) {
	req.Normalize()
	if req.Slug == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "slug must contain letters or digits")
	}
	taken, err := slugTaken(ctx, db, req.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	ev := req.ToModel()
	if err := db.WithContext(ctx).Create(ev).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return ev, nil
}

func UpdateEvent(ctx context.Context, db *gorm.DB, id uuid.UUID, req dto.UpdateEventRequest) (*model.EventModel, error) {
	ev, err := FindEvent(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if slug := req.NewSlug(); slug != "" && slug != ev.Slug {
		taken, err := slugTaken(ctx, db, slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
	}

	updates := req.ApplyUpdates()
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(&model.EventModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrSlugTaken
			}
			return nil, fmt.Errorf("update event: %w", err)
		}
	}
	return FindEvent(ctx, db, id)
}

// DeleteEvent removes the event and everything it owns in one transaction.
// Stored photo blobs are not touched here.
func DeleteEvent(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	if err := EnsureEventExists(ctx, db, id); err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guestIDs := tx.Model(&guestModel.GuestModel{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("guest_id IN (?)", guestIDs).Delete(&guestModel.GuestSubEventRsvpModel{}).Error; err != nil {
			return fmt.Errorf("delete rsvps: %w", err)
		}
		groupIDs := tx.Model(&groupModel.InvitationGroupModel{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("group_id IN (?)", groupIDs).Delete(&groupModel.GroupSubEventModel{}).Error; err != nil {
			return fmt.Errorf("delete group links: %w", err)
		}

		owned := []any{
			&guestModel.GuestModel{},
			&groupModel.InvitationGroupModel{},
			&subEventModel.SubEventModel{},
			&photoModel.PhotoModel{},
			&guestbookModel.GuestbookEntryModel{},
			&donationModel.DonationModel{},
			&notificationModel.PushNotificationModel{},
			&playlistModel.PlaylistSuggestionModel{},
			&chatModel.ChatMessageModel{},
		}
		for _, m := range owned {
			if err := tx.Where("event_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("delete %T: %w", m, err)
			}
		}

		if err := tx.Delete(&model.EventModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		log.Ctx(ctx).Info().Str("event_id", id.String()).Msg("event deleted with owned data")
		return nil
	})
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/constants"
	eventService "savethedate_backend/internals/features/events/events/service"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	"savethedate_backend/internals/features/events/sub_events/dto"
	"savethedate_backend/internals/features/events/sub_events/model"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
)

var ErrSubEventNotFound = fiber.NewError(fiber.StatusNotFound, "sub-event not found")

func ListSubEvents(ctx context.Context, db *gorm.DB, eventID uuid.UUID) ([]model.SubEventModel, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}
	var out []model.SubEventModel
	if err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order(model.ProgramOrder).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sub-events: %w", err)
	}
	return out, nil
}

func FindSubEvent(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.SubEventModel, error) {
	var se model.SubEventModel
	if err := db.WithContext(ctx).First(&se, "id = ? AND event_id = ?", id, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubEventNotFound
		}
		return nil, fmt.Errorf("load sub-event: %w", err)
	}
	return &se, nil
}

// CreateSubEvent appends after the current last sort_order unless one is given.
func CreateSubEvent(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.CreateSubEventRequest) (*model.SubEventModel, error) {
	req.Normalize()
	if req.Slug == "" {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "slug must contain letters or digits")
	}
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&model.SubEventModel{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count sub-events: %w", err)
	}
	se, err := req.ToModel(eventID, int(count))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if err := db.WithContext(ctx).Create(se).Error; err != nil {
		return nil, fmt.Errorf("create sub-event: %w", err)
	}
	return se, nil
}

func UpdateSubEvent(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID, req dto.UpdateSubEventRequest) (*model.SubEventModel, error) {
	if _, err := FindSubEvent(ctx, db, eventID, id); err != nil {
		return nil, err
	}
	updates, err := req.ApplyUpdates()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(&model.SubEventModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update sub-event: %w", err)
		}
	}
	return FindSubEvent(ctx, db, eventID, id)
}

// DeleteSubEvent drops the sub-event with its group links and RSVP rows, then
// re-derives the status of the guests who had answered it.
func DeleteSubEvent(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	if _, err := FindSubEvent(ctx, db, eventID, id); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_event_id = ?", id).Delete(&groupModel.GroupSubEventModel{}).Error; err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		var guestIDs []uuid.UUID
		if err := tx.Model(&guestModel.GuestSubEventRsvpModel{}).
			Where("sub_event_id = ?", id).
			Distinct().
			Pluck("guest_id", &guestIDs).Error; err != nil {
			return fmt.Errorf("load rsvp guests: %w", err)
		}
		if err := tx.Where("sub_event_id = ?", id).Delete(&guestModel.GuestSubEventRsvpModel{}).Error; err != nil {
			return fmt.Errorf("delete rsvps: %w", err)
		}
		if err := tx.Delete(&model.SubEventModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete sub-event: %w", err)
		}
		return guestModel.RecomputeGuestStatuses(ctx, tx, guestIDs)
	})
}

// Reorder sets sort_order to each id's position; ids of other events are ignored.
func Reorder(ctx context.Context, db *gorm.DB, eventID uuid.UUID, ids []uuid.UUID) (int, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return 0, err
	}
	updated := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(&model.SubEventModel{}).
				Where("id = ? AND event_id = ?", id, eventID).
				Update("sort_order", i)
			if res.Error != nil {
				return fmt.Errorf("reorder: %w", res.Error)
			}
			updated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func Templates() []constants.SubEventTemplate {
	return constants.SubEventTemplates
}

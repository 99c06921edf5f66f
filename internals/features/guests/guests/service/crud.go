package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

type ListFilter struct {
	Status  string
	GroupID *uuid.UUID
	Search  string
	Offset  int
	Limit   int
}

func ListGuests(ctx context.Context, db *gorm.DB, eventID uuid.UUID, f ListFilter) ([]model.GuestModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).Model(&model.GuestModel{}).Where("event_id = ?", eventID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.GroupID != nil {
		q = q.Where("invitation_group_id = ?", *f.GroupID)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count guests: %w", err)
	}

	var guests []model.GuestModel
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Order("name ASC").Find(&guests).Error; err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}
	return guests, total, nil
}

// ensureGroupInEvent rejects a group id that does not belong to the event.
func ensureGroupInEvent(ctx context.Context, db *gorm.DB, eventID, groupID uuid.UUID) error {
	var n int64
	if err := db.WithContext(ctx).Model(&groupModel.InvitationGroupModel{}).
		Where("id = ? AND event_id = ?", groupID, eventID).
		Count(&n).Error; err != nil {
		return fmt.Errorf("check group: %w", err)
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "invitation group not found")
	}
	return nil
}

func CreateGuest(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.CreateGuestRequest) (*model.GuestModel, error) {
	req.Normalize()
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}
	if req.InvitationGroupID != nil {
		if err := ensureGroupInEvent(ctx, db, eventID, *req.InvitationGroupID); err != nil {
			return nil, err
		}
	}

	g := req.ToModel(eventID)
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return g, nil
}

// UpdateGuest applies a partial update; when RSVP rows exist the status is re-derived from them afterwards.
func UpdateGuest(ctx context.Context, db *gorm.DB, eventID, guestID uuid.UUID, req dto.UpdateGuestRequest) (*model.GuestModel, error) {
	g, err := FindGuest(ctx, db, eventID, guestID)
	if err != nil {
		return nil, err
	}
	if req.InvitationGroupID != nil {
		if err := ensureGroupInEvent(ctx, db, eventID, *req.InvitationGroupID); err != nil {
			return nil, err
		}
	}

	updates := req.ApplyUpdates()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.GuestModel{}).Where("id = ?", g.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("update guest: %w", err)
			}
		}
		if err := tx.First(g, "id = ?", g.ID).Error; err != nil {
			return fmt.Errorf("reload guest: %w", err)
		}
		_, err := model.RecomputeGuestStatus(ctx, tx, g)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGuest removes the guest and its RSVP rows.
func DeleteGuest(ctx context.Context, db *gorm.DB, eventID, guestID uuid.UUID) error {
	g, err := FindGuest(ctx, db, eventID, guestID)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", g.ID).Delete(&model.GuestSubEventRsvpModel{}).Error; err != nil {
			return fmt.Errorf("delete rsvps: %w", err)
		}
		if err := tx.Delete(&model.GuestModel{}, "id = ?", g.ID).Error; err != nil {
			return fmt.Errorf("delete guest: %w", err)
		}
		return nil
	})
}

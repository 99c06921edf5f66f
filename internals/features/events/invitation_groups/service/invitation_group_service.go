package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/constants"
	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/features/events/invitation_groups/dto"
	"savethedate_backend/internals/features/events/invitation_groups/model"
	subEventDTO "savethedate_backend/internals/features/events/sub_events/dto"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
)

var (
	ErrGroupNotFound = fiber.NewError(fiber.StatusNotFound, "invitation group not found")
	ErrLinkNotFound  = fiber.NewError(fiber.StatusNotFound, "sub-event is not linked to this group")
	ErrGuestNotFound = fiber.NewError(fiber.StatusNotFound, "guest not found")
)

func FindGroup(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.InvitationGroupModel, error) {
	var g model.InvitationGroupModel
	if err := db.WithContext(ctx).First(&g, "id = ? AND event_id = ?", id, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("load group: %w", err)
	}
	return &g, nil
}

// sameEventSubEventIDs keeps only the ids that are sub-events of the event.
func sameEventSubEventIDs(ctx context.Context, db *gorm.DB, eventID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := db.WithContext(ctx).Model(&subEventModel.SubEventModel{}).
		Where("event_id = ? AND id IN ?", eventID, ids).
		Order(subEventModel.ProgramOrder).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check sub-events: %w", err)
	}
	return found, nil
}

// linkSubEvents creates missing links and reports how many were new.
func linkSubEvents(tx *gorm.DB, groupID uuid.UUID, ids []uuid.UUID) (int, error) {
	added := 0
	for _, id := range ids {
		var n int64
		if err := tx.Model(&model.GroupSubEventModel{}).
			Where("group_id = ? AND sub_event_id = ?", groupID, id).
			Count(&n).Error; err != nil {
			return added, fmt.Errorf("check link: %w", err)
		}
		if n > 0 {
			continue
		}
		if err := tx.Create(&model.GroupSubEventModel{GroupID: groupID, SubEventID: id}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return added, fmt.Errorf("link sub-event: %w", err)
		}
		added++
	}
	return added, nil
}

/* =======================================================================
   Read
======================================================================= */

func toResponse(ctx context.Context, db *gorm.DB, g *model.InvitationGroupModel) (*dto.GroupResponse, error) {
	var subEvents []subEventModel.SubEventModel
	if err := db.WithContext(ctx).
		Joins("JOIN group_sub_events ON group_sub_events.sub_event_id = sub_events.id").
		Where("group_sub_events.group_id = ?", g.ID).
		Order("sub_events.sort_order ASC, sub_events.date ASC").
		Find(&subEvents).Error; err != nil {
		return nil, fmt.Errorf("load linked sub-events: %w", err)
	}
	var guests int64
	if err := db.WithContext(ctx).Model(&guestModel.GuestModel{}).
		Where("invitation_group_id = ?", g.ID).
		Count(&guests).Error; err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	return &dto.GroupResponse{
		ID:          g.ID,
		EventID:     g.EventID,
		Name:        g.Name,
		Description: g.Description,
		Color:       g.Color,
		SubEvents:   subEventDTO.FromModels(subEvents),
		GuestCount:  guests,
		CreatedAt:   g.CreatedAt,
	}, nil
}

func ListGroups(ctx context.Context, db *gorm.DB, eventID uuid.UUID) ([]dto.GroupResponse, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}
	var groups []model.InvitationGroupModel
	if err := db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		r, err := toResponse(ctx, db, &groups[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func GetGroup(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*dto.GroupResponse, error) {
	g, err := FindGroup(ctx, db, eventID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(ctx, db, g)
}

/* =======================================================================
   Write
======================================================================= */

func CreateGroup(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	req.Normalize()
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}
	ids, err := sameEventSubEventIDs(ctx, db, eventID, req.SubEventIDs)
	if err != nil {
		return nil, err
	}

	g := req.ToModel(eventID)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		_, err := linkSubEvents(tx, g.ID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toResponse(ctx, db, g)
}

func UpdateGroup(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID, req dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	g, err := FindGroup(ctx, db, eventID, id)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	if req.SubEventIDs != nil {
		if ids, err = sameEventSubEventIDs(ctx, db, eventID, *req.SubEventIDs); err != nil {
			return nil, err
		}
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updates := req.ApplyUpdates(); len(updates) > 0 {
			if err := tx.Model(&model.InvitationGroupModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("update group: %w", err)
			}
		}
		if req.SubEventIDs == nil {
			return nil
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupSubEventModel{}).Error; err != nil {
			return fmt.Errorf("clear links: %w", err)
		}
		_, err := linkSubEvents(tx, id, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).First(g, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload group: %w", err)
	}
	return toResponse(ctx, db, g)
}

// DeleteGroup unlinks its sub-events and leaves its guests ungrouped.
func DeleteGroup(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	if _, err := FindGroup(ctx, db, eventID, id); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&guestModel.GuestModel{}).
			Where("invitation_group_id = ?", id).
			Update("invitation_group_id", nil).Error; err != nil {
			return fmt.Errorf("ungroup guests: %w", err)
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupSubEventModel{}).Error; err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if err := tx.Delete(&model.InvitationGroupModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
}

// AddSubEvents links more sub-events; already linked or foreign ids are skipped.
func AddSubEvents(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID, subEventIDs []uuid.UUID) (*dto.LinkResult, error) {
	if _, err := FindGroup(ctx, db, eventID, id); err != nil {
		return nil, err
	}
	ids, err := sameEventSubEventIDs(ctx, db, eventID, subEventIDs)
	if err != nil {
		return nil, err
	}
	var added int
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		added, err = linkSubEvents(tx, id, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.LinkResult{Added: added, Skipped: len(subEventIDs) - added}, nil
}

func RemoveSubEvent(ctx context.Context, db *gorm.DB, eventID, id, subEventID uuid.UUID) error {
	if _, err := FindGroup(ctx, db, eventID, id); err != nil {
		return err
	}
	res := db.WithContext(ctx).
		Where("group_id = ? AND sub_event_id = ?", id, subEventID).
		Delete(&model.GroupSubEventModel{})
	if res.Error != nil {
		return fmt.Errorf("unlink sub-event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

/* =======================================================================
   Guests
======================================================================= */

func AssignGuest(ctx context.Context, db *gorm.DB, eventID, groupID, guestID uuid.UUID) error {
	if _, err := FindGroup(ctx, db, eventID, groupID); err != nil {
		return err
	}
	return setGuestGroup(ctx, db, eventID, guestID, &groupID)
}

func UnassignGuest(ctx context.Context, db *gorm.DB, eventID, guestID uuid.UUID) error {
	return setGuestGroup(ctx, db, eventID, guestID, nil)
}

func setGuestGroup(ctx context.Context, db *gorm.DB, eventID, guestID uuid.UUID, groupID *uuid.UUID) error {
	var value any
	if groupID != nil {
		value = *groupID
	}
	res := db.WithContext(ctx).Model(&guestModel.GuestModel{}).
		Where("id = ? AND event_id = ?", guestID, eventID).
		Update("invitation_group_id", value)
	if res.Error != nil {
		return fmt.Errorf("assign guest: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}

/* =======================================================================
   Templates
======================================================================= */

func Templates() []constants.GroupTemplate {
	return constants.GroupTemplates
}

// ApplyTemplate creates a group from a preset, linked to the event's sub-events whose slug it names.
func ApplyTemplate(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.ApplyTemplateRequest) (*dto.GroupResponse, error) {
	tpl, ok := constants.FindGroupTemplate(req.Key)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown group template "+req.Key)
	}
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}

	q := db.WithContext(ctx).Model(&subEventModel.SubEventModel{}).Where("event_id = ?", eventID)
	if !tpl.DefaultAll {
		q = q.Where("slug IN ?", tpl.DefaultSlugs)
	}
	var ids []uuid.UUID
	if err := q.Order(subEventModel.ProgramOrder).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("match template sub-events: %w", err)
	}

	name := tpl.Name
	if req.Name != "" {
		name = req.Name
	}
	desc := tpl.Description
	res, err := CreateGroup(ctx, db, eventID, dto.CreateGroupRequest{
		Name:        name,
		Description: &desc,
		Color:       tpl.Color,
		SubEventIDs: ids,
	})
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("template", tpl.Key).Int("linked", len(res.SubEvents)).Msg("group template applied")
	return res, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	eventModel "savethedate_backend/internals/features/events/events/model"
	eventService "savethedate_backend/internals/features/events/events/service"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

var ErrDeadlinePassed = fiber.NewError(fiber.StatusBadRequest, "RSVP deadline has passed")

// CheckPlusOnes rejects counts above the event's max_plus_ones; the limit itself is allowed.
func CheckPlusOnes(mods eventModel.Modules, plusOnes int) error {
	if plusOnes > mods.RSVP.MaxPlusOnes {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Maximum %d plus ones allowed", mods.RSVP.MaxPlusOnes))
	}
	return nil
}

/* =======================================================================
   Open RSVP: a guest answers without being on the list
======================================================================= */

func SubmitOpenRSVP(ctx context.Context, db *gorm.DB, eventID uuid.UUID, req dto.OpenRSVPRequest, now time.Time) (*model.GuestModel, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	mods := ev.Modules()
	if mods.RSVP.DeadlinePassed(now) {
		return nil, ErrDeadlinePassed
	}
	if err := CheckPlusOnes(mods, req.PlusOnes); err != nil {
		return nil, err
	}

	attending := req.IsAttending()
	rsvpAt := now.UTC()
	g := &model.GuestModel{
		EventID:       eventID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        model.GuestStatusDeclined,
		PlusOneNames:  pq.StringArray{},
		Dietary:       req.Dietary,
		Allergies:     req.Allergies,
		MenuChoice:    req.MenuChoice,
		CustomAnswers: dto.ToJSON(req.CustomAnswers),
		RSVPDate:      &rsvpAt,
	}
	if attending {
		g.Status = model.GuestStatusConfirmed
		g.PlusOnes = req.PlusOnes
		g.PlusOneNames = pq.StringArray(req.PlusOneNames)
	}

	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return g, nil
}

/* =======================================================================
   Per sub-event RSVP batch
======================================================================= */

// SubmitSubEventRSVP upserts one row per item and re-derives the guest status from all rows.
// Items pointing at sub-events of another event (or unknown ones) are skipped, not fatal.
func SubmitSubEventRSVP(ctx context.Context, db *gorm.DB, eventID uuid.UUID, code string, req dto.SubEventRsvpRequest, now time.Time) (*dto.SubEventRsvpResult, error) {
	req.Normalize()

	g, err := FindByCode(ctx, db, eventID, code)
	if err != nil {
		return nil, err
	}
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Modules().RSVP.DeadlinePassed(now) {
		return nil, ErrDeadlinePassed
	}

	result := &dto.SubEventRsvpResult{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		valid, err := sameEventSubEvents(tx, eventID, req.SubEventRsvps)
		if err != nil {
			return err
		}

		for _, item := range req.SubEventRsvps {
			if !valid[item.SubEventID] {
				result.Skipped++
				continue
			}
			row := model.GuestSubEventRsvpModel{
				GuestID:        g.ID,
				SubEventID:     item.SubEventID,
				Status:         item.Status,
				AttendeesCount: item.AttendeesCount,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "guest_id"}, {Name: "sub_event_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "attendees_count", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("upsert rsvp: %w", err)
			}
			result.Applied++
		}

		updates := map[string]any{"rsvp_date": now.UTC()}
		if req.Dietary != nil {
			updates["dietary"] = *req.Dietary
		}
		if req.Allergies != nil {
			updates["allergies"] = *req.Allergies
		}
		if len(req.CustomAnswers) > 0 {
			updates["custom_answers"] = dto.ToJSON(req.CustomAnswers)
		}
		if err := tx.Model(&model.GuestModel{}).Where("id = ?", g.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update guest: %w", err)
		}

		status, err := model.RecomputeGuestStatus(ctx, tx, g)
		if err != nil {
			return err
		}
		result.GuestStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("guest_id", g.ID.String()).
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Str("status", result.GuestStatus).
		Msg("sub-event rsvp stored")
	return result, nil
}

func sameEventSubEvents(tx *gorm.DB, eventID uuid.UUID, items []dto.SubEventRsvpItem) (map[uuid.UUID]bool, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.SubEventID)
	}
	var found []uuid.UUID
	if err := tx.Model(&subEventModel.SubEventModel{}).
		Where("event_id = ? AND id IN ?", eventID, ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check sub-events: %w", err)
	}
	valid := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		valid[id] = true
	}
	return valid, nil
}

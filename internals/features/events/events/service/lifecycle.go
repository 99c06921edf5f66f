package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/events/dto"
	"savethedate_backend/internals/features/events/events/model"
)

const (
	// expires_at default: event_date plus one year
	DefaultRetention = 365 * 24 * time.Hour

	DefaultRenewMonths = 12
	// a billing month
	monthDuration = 30 * 24 * time.Hour

	ExpiringSoonDays = 30
)

const (
	ActionPublish = "publish"
	ActionArchive = "archive"
	ActionRenew   = "renew"
	ActionDelete  = "delete"
)

func DefaultExpiry(eventDate time.Time) time.Time {
	return eventDate.UTC().Add(DefaultRetention)
}

// SetStatus accepts any of the five statuses. The first switch to live fills expires_at.
func SetStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status string) (*model.EventModel, error) {
	if !model.IsValidEventStatus(status) {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid status, must be one of %v", model.EventStatuses))
	}
	ev, err := FindEvent(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"status": status}
	if status == model.EventStatusLive && ev.ExpiresAt == nil {
		exp := DefaultExpiry(ev.EventDate)
		updates["expires_at"] = exp
		ev.ExpiresAt = &exp
	}
	if err := db.WithContext(ctx).Model(&model.EventModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	log.Ctx(ctx).Info().Str("event_id", id.String()).Str("from", ev.Status).Str("to", status).Msg("event status changed")
	ev.Status = status
	return ev, nil
}

// Renew extends expires_at by months from the later of expires_at and now; expired events return to souvenir.
func Renew(ctx context.Context, db *gorm.DB, id uuid.UUID, months int, now time.Time) (*model.EventModel, error) {
	if months == 0 {
		months = DefaultRenewMonths
	}
	if months < 1 || months > 60 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "months must be between 1 and 60")
	}
	ev, err := FindEvent(ctx, db, id)
	if err != nil {
		return nil, err
	}

	from := now.UTC()
	if ev.ExpiresAt != nil && ev.ExpiresAt.After(from) {
		from = ev.ExpiresAt.UTC()
	}
	exp := from.Add(time.Duration(months) * monthDuration)

	updates := map[string]any{"expires_at": exp}
	if ev.Status == model.EventStatusExpired {
		updates["status"] = model.EventStatusSouvenir
		ev.Status = model.EventStatusSouvenir
	}
	if err := db.WithContext(ctx).Model(&model.EventModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("renew event: %w", err)
	}
	ev.ExpiresAt = &exp
	return ev, nil
}

// daysUntil floors toward negative infinity, so anything already past is negative.
func daysUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// Introspect is a pure read of the event's lifecycle position.
func Introspect(ev *model.EventModel, now time.Time) dto.LifecycleInfo {
	info := dto.LifecycleInfo{
		EventID:          ev.ID.String(),
		Status:           ev.Status,
		EventDate:        ev.EventDate,
		ExpiresAt:        ev.ExpiresAt,
		DaysUntilEvent:   daysUntil(ev.EventDate, now),
		AvailableActions: []string{},
	}
	info.IsPast = info.DaysUntilEvent < 0

	if ev.ExpiresAt != nil {
		d := daysUntil(*ev.ExpiresAt, now)
		info.DaysUntilExpiration = &d
		info.IsExpiringSoon = d > 0 && d <= ExpiringSoonDays
		info.IsExpired = d <= 0
	}

	switch ev.Status {
	case model.EventStatusDraft:
		info.AvailableActions = append(info.AvailableActions, ActionPublish)
	case model.EventStatusLive:
		if info.IsPast {
			info.AvailableActions = append(info.AvailableActions, ActionArchive)
		}
	case model.EventStatusSouvenir:
		info.AvailableActions = append(info.AvailableActions, ActionRenew)
	case model.EventStatusExpired:
		info.AvailableActions = append(info.AvailableActions, ActionRenew, ActionDelete)
	}
	return info
}

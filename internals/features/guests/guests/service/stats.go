package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventService "savethedate_backend/internals/features/events/events/service"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

// GuestStats is computed fresh from the guests table on every call.
func GuestStats(ctx context.Context, db *gorm.DB, eventID uuid.UUID) (*dto.RSVPStats, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}

	var guests []model.GuestModel
	if err := db.WithContext(ctx).
		Select("id", "status", "plus_ones", "dietary", "menu_choice").
		Where("event_id = ?", eventID).
		Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("load guests: %w", err)
	}

	out := &dto.RSVPStats{
		Total:            len(guests),
		DietaryBreakdown: map[string]int{},
		MenuBreakdown:    map[string]int{},
	}
	for _, g := range guests {
		switch g.Status {
		case model.GuestStatusConfirmed:
			out.Confirmed++
		case model.GuestStatusDeclined:
			out.Declined++
		case model.GuestStatusPending:
			out.Pending++
		case model.GuestStatusPartial:
			out.Partial++
		}
		if g.Status != model.GuestStatusConfirmed {
			continue
		}
		out.TotalWithPlusOnes += g.Headcount()
		if g.Dietary != nil && *g.Dietary != "" {
			out.DietaryBreakdown[*g.Dietary]++
		}
		if g.MenuChoice != nil && *g.MenuChoice != "" {
			out.MenuBreakdown[*g.MenuChoice]++
		}
	}
	return out, nil
}

type subEventCount struct {
	SubEventID uuid.UUID
	Status     string
	Rows       int
	Attendees  int
}

// SubEventStats counts RSVP rows per sub-event; attendees only sum confirmed rows.
func SubEventStats(ctx context.Context, db *gorm.DB, eventID uuid.UUID) ([]dto.SubEventRsvpStats, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}

	var subEvents []subEventModel.SubEventModel
	if err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order(subEventModel.ProgramOrder).
		Find(&subEvents).Error; err != nil {
		return nil, fmt.Errorf("load sub-events: %w", err)
	}

	var counts []subEventCount
	if err := db.WithContext(ctx).
		Table("guest_sub_event_rsvps AS r").
		Select("r.sub_event_id AS sub_event_id, r.status AS status, COUNT(*) AS rows, COALESCE(SUM(r.attendees_count), 0) AS attendees").
		Joins("JOIN sub_events se ON se.id = r.sub_event_id").
		Where("se.event_id = ?", eventID).
		Group("r.sub_event_id, r.status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}

	byID := make(map[uuid.UUID]*dto.SubEventRsvpStats, len(subEvents))
	out := make([]dto.SubEventRsvpStats, len(subEvents))
	for i, se := range subEvents {
		out[i] = dto.SubEventRsvpStats{SubEventID: se.ID, SubEventName: se.Name}
		byID[se.ID] = &out[i]
	}
	for _, c := range counts {
		s, ok := byID[c.SubEventID]
		if !ok {
			continue
		}
		switch c.Status {
		case model.RSVPStatusConfirmed:
			s.Confirmed += c.Rows
			s.TotalAttendees += c.Attendees
		case model.RSVPStatusDeclined:
			s.Declined += c.Rows
		case model.RSVPStatusPending:
			s.Pending += c.Rows
		}
	}
	return out, nil
}

package model

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AggregateStatus folds per sub-event RSVP rows into one guest status.
//   - at least one row and all confirmed: confirmed
//   - at least one row and all declined: declined
//   - any row answered (mixed): partial
//   - no rows, or all pending: current is kept
func AggregateStatus(rows []GuestSubEventRsvpModel, current string) string {
	if len(rows) == 0 {
		return current
	}
	confirmed, declined, answered := 0, 0, 0
	for _, r := range rows {
		switch r.Status {
		case RSVPStatusConfirmed:
			confirmed++
		case RSVPStatusDeclined:
			declined++
		}
		if r.Status != RSVPStatusPending {
			answered++
		}
	}
	switch {
	case confirmed == len(rows):
		return GuestStatusConfirmed
	case declined == len(rows):
		return GuestStatusDeclined
	case answered > 0:
		return GuestStatusPartial
	default:
		return current
	}
}

// RecomputeGuestStatus re-derives and stores guest.status from all of the guest's RSVP rows.
func RecomputeGuestStatus(ctx context.Context, db *gorm.DB, g *GuestModel) (string, error) {
	var rows []GuestSubEventRsvpModel
	if err := db.WithContext(ctx).Where("guest_id = ?", g.ID).Find(&rows).Error; err != nil {
		return "", fmt.Errorf("load rsvps: %w", err)
	}
	next := AggregateStatus(rows, g.Status)
	if next != g.Status {
		if err := db.WithContext(ctx).Model(&GuestModel{}).
			Where("id = ?", g.ID).
			Update("status", next).Error; err != nil {
			return "", fmt.Errorf("update guest status: %w", err)
		}
		g.Status = next
	}
	return next, nil
}

// RecomputeGuestStatuses runs RecomputeGuestStatus for every listed guest.
func RecomputeGuestStatuses(ctx context.Context, db *gorm.DB, guestIDs []uuid.UUID) error {
	if len(guestIDs) == 0 {
		return nil
	}
	var guests []GuestModel
	if err := db.WithContext(ctx).Where("id IN ?", guestIDs).Find(&guests).Error; err != nil {
		return fmt.Errorf("load guests: %w", err)
	}
	for i := range guests {
		if _, err := RecomputeGuestStatus(ctx, db, &guests[i]); err != nil {
			return err
		}
	}
	return nil
}

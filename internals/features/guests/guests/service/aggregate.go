package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/guests/guests/model"
)

// GlobalRSVPStatus is the read-only projection shown in the program: pending when nothing decided.
func GlobalRSVPStatus(rows []model.GuestSubEventRsvpModel) string {
	return model.AggregateStatus(rows, model.GuestStatusPending)
}

func loadRSVPRows(ctx context.Context, db *gorm.DB, guestID uuid.UUID) ([]model.GuestSubEventRsvpModel, error) {
	var rows []model.GuestSubEventRsvpModel
	if err := db.WithContext(ctx).Where("guest_id = ?", guestID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rsvps: %w", err)
	}
	return rows, nil
}

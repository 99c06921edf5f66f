package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RSVPStatusPending   = "pending"
	RSVPStatusConfirmed = "confirmed"
	RSVPStatusDeclined  = "declined"
)

// GuestSubEventRsvpModel is the attendance decision of one guest for one sub-event.
type GuestSubEventRsvpModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	GuestID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_guest_sub_event_rsvp,priority:1;column:guest_id" json:"guest_id"`
	SubEventID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_guest_sub_event_rsvp,priority:2;index:idx_rsvps_sub_event;column:sub_event_id" json:"sub_event_id"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending';column:status" json:"status"`
	AttendeesCount int       `gorm:"not null;default:1;column:attendees_count" json:"attendees_count"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GuestSubEventRsvpModel) TableName() string { return "guest_sub_event_rsvps" }

func (r *GuestSubEventRsvpModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RSVPStatusPending
	}
	if r.AttendeesCount < 1 {
		r.AttendeesCount = 1
	}
	return nil
}

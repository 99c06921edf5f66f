package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationStatusDraft     = "draft"
	NotificationStatusScheduled = "scheduled"
	NotificationStatusSent      = "sent"
	NotificationStatusFailed    = "failed"
)

var NotificationStatuses = []string{
	NotificationStatusDraft,
	NotificationStatusScheduled,
	NotificationStatusSent,
	NotificationStatusFailed,
}

type PushNotificationModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_push_notifications_event;column:event_id" json:"event_id"`
	TargetGroupID *uuid.UUID `gorm:"type:uuid;column:target_group_id" json:"target_group_id,omitempty"`

	Title   string `gorm:"type:varchar(200);not null;column:title" json:"title"`
	Message string `gorm:"type:text;not null;column:message" json:"message"`

	ScheduledAt *time.Time `gorm:"index:idx_push_notifications_due,priority:2;column:scheduled_at" json:"scheduled_at,omitempty"`
	SentAt      *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index:idx_push_notifications_due,priority:1;column:status" json:"status"`

	OpenedCount   int     `gorm:"not null;default:0;column:opened_count" json:"opened_count"`
	FailureReason *string `gorm:"type:text;column:failure_reason" json:"failure_reason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PushNotificationModel) TableName() string { return "push_notifications" }

func (n *PushNotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = NotificationStatusDraft
	}
	return nil
}

// Topic is event_<id>, or event_<id>_group_<gid> for a targeted group.
func (n *PushNotificationModel) Topic() string {
	if n.TargetGroupID != nil {
		return GroupTopic(n.EventID, *n.TargetGroupID)
	}
	return EventTopic(n.EventID)
}

func EventTopic(eventID uuid.UUID) string {
	return fmt.Sprintf("event_%s", eventID)
}

func GroupTopic(eventID, groupID uuid.UUID) string {
	return fmt.Sprintf("event_%s_group_%s", eventID, groupID)
}

package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/notifications/push_notifications/model"
)

type CreateNotificationRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Message       string     `json:"message" validate:"required,max=4000"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	TargetGroupID *uuid.UUID `json:"target_group_id"`
}

func (r *CreateNotificationRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	if r.ScheduledAt != nil {
		t := r.ScheduledAt.UTC()
		r.ScheduledAt = &t
	}
}

type SubscribeRequest struct {
	Token    string     `json:"token" validate:"required"`
	Platform *string    `json:"platform" validate:"omitempty,oneof=ios android web"`
	GroupID  *uuid.UUID `json:"group_id"`
}

type SubscriptionResult struct {
	Topics []string `json:"topics"`
}

type NotificationResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	TargetGroupID *uuid.UUID `json:"target_group_id,omitempty"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	Status        string     `json:"status"`
	OpenedCount   int        `json:"opened_count"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromModel(n *model.PushNotificationModel) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		EventID:       n.EventID,
		TargetGroupID: n.TargetGroupID,
		Title:         n.Title,
		Message:       n.Message,
		ScheduledAt:   n.ScheduledAt,
		SentAt:        n.SentAt,
		Status:        n.Status,
		OpenedCount:   n.OpenedCount,
		FailureReason: n.FailureReason,
		CreatedAt:     n.CreatedAt,
	}
}

func FromModels(rows []model.PushNotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// Quota limit/remaining are null for unlimited packs.
type QuotaInfo struct {
	Used      int64 `json:"used"`
	Limit     *int  `json:"limit"`
	Remaining *int  `json:"remaining"`
}

type NotificationStats struct {
	Total             int64     `json:"total"`
	Draft             int64     `json:"draft"`
	Sent              int64     `json:"sent"`
	Scheduled         int64     `json:"scheduled"`
	Failed            int64     `json:"failed"`
	DispatchAvailable bool      `json:"dispatch_available"`
	Quota             QuotaInfo `json:"quota"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	eventModel "savethedate_backend/internals/features/events/events/model"
	eventService "savethedate_backend/internals/features/events/events/service"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	"savethedate_backend/internals/features/notifications/push_notifications/dto"
	"savethedate_backend/internals/features/notifications/push_notifications/model"
	"savethedate_backend/internals/helpers/push"
)

var (
	ErrNotificationNotFound = fiber.NewError(fiber.StatusNotFound, "notification not found")
	ErrAlreadySent          = fiber.NewError(fiber.StatusBadRequest, "cannot cancel a sent notification")
	ErrDispatchUnavailable  = fiber.NewError(fiber.StatusServiceUnavailable, "push dispatch is not available")
)

func FindNotification(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) (*model.PushNotificationModel, error) {
	var n model.PushNotificationModel
	if err := db.WithContext(ctx).First(&n, "id = ? AND event_id = ?", id, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("load notification: %w", err)
	}
	return &n, nil
}

// countCommitted counts rows that use up the pack quota: sent ones and those still scheduled.
func countCommitted(ctx context.Context, db *gorm.DB, eventID uuid.UUID, statuses ...string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&model.PushNotificationModel{}).
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Count(&n).Error
	return n, err
}

func quotaError(used int64, quota int, pack string) error {
	return fiber.NewError(fiber.StatusBadRequest,
		fmt.Sprintf("notification quota reached (%d/%d for %s pack)", used, quota, pack))
}

func checkQuota(ctx context.Context, db *gorm.DB, ev *eventModel.EventModel) error {
	quota := ev.NotificationQuota()
	if quota == 0 {
		return nil
	}
	used, err := countCommitted(ctx, db, ev.ID, model.NotificationStatusSent, model.NotificationStatusScheduled)
	if err != nil {
		return fmt.Errorf("count notifications: %w", err)
	}
	if used >= int64(quota) {
		return quotaError(used, quota, ev.Pack)
	}
	return nil
}

func ensureGroup(ctx context.Context, db *gorm.DB, eventID, groupID uuid.UUID) error {
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

/* =======================================================================
   Create / deliver
======================================================================= */

// CreateNotification stores a scheduled row, or sends right away when no
// scheduled_at is given. A dispatch failure is recorded on the row, not returned.
func CreateNotification(ctx context.Context, db *gorm.DB, h *push.Handle, eventID uuid.UUID, req dto.CreateNotificationRequest, now time.Time) (*model.PushNotificationModel, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if req.Title == "" || req.Message == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "title and message are required")
	}
	if req.TargetGroupID != nil {
		if err := ensureGroup(ctx, db, eventID, *req.TargetGroupID); err != nil {
			return nil, err
		}
	}
	if err := checkQuota(ctx, db, ev); err != nil {
		return nil, err
	}

	n := &model.PushNotificationModel{
		EventID:       eventID,
		TargetGroupID: req.TargetGroupID,
		Title:         req.Title,
		Message:       req.Message,
		ScheduledAt:   req.ScheduledAt,
		Status:        model.NotificationStatusDraft,
	}
	if n.ScheduledAt != nil {
		n.Status = model.NotificationStatusScheduled
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if n.Status == model.NotificationStatusScheduled {
		return n, nil
	}

	if err := Deliver(ctx, db, h, n, now); err != nil {
		return nil, err
	}
	return n, nil
}

// Deliver sends n to its topic once and records sent or failed.
// Only a storage error is returned.
func Deliver(ctx context.Context, db *gorm.DB, h *push.Handle, n *model.PushNotificationModel, now time.Time) error {
	updates := map[string]any{}
	sendErr := dispatch(ctx, h, n)
	if sendErr == nil {
		sentAt := now.UTC()
		n.Status = model.NotificationStatusSent
		n.SentAt = &sentAt
		n.FailureReason = nil
		updates["status"] = n.Status
		updates["sent_at"] = sentAt
		updates["failure_reason"] = nil
	} else {
		reason := sendErr.Error()
		n.Status = model.NotificationStatusFailed
		n.FailureReason = &reason
		updates["status"] = n.Status
		updates["failure_reason"] = reason
		log.Ctx(ctx).Warn().Err(sendErr).Str("notification_id", n.ID.String()).Str("topic", n.Topic()).Msg("push not delivered")
	}

	if err := db.WithContext(ctx).Model(&model.PushNotificationModel{}).Where("id = ?", n.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

func dispatch(ctx context.Context, h *push.Handle, n *model.PushNotificationModel) error {
	if h == nil {
		return push.ErrUnavailable
	}
	d, err := h.Dispatcher(ctx)
	if err != nil {
		return err
	}
	data := map[string]string{
		"event_id":        n.EventID.String(),
		"notification_id": n.ID.String(),
	}
	if n.TargetGroupID != nil {
		data["group_id"] = n.TargetGroupID.String()
	}
	_, err = d.SendToTopic(ctx, n.Topic(), n.Title, n.Message, data)
	return err
}

/* =======================================================================
   Read / cancel / stats
======================================================================= */

func ListNotifications(ctx context.Context, db *gorm.DB, eventID uuid.UUID, status string, offset, limit int) ([]model.PushNotificationModel, int64, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(&model.PushNotificationModel{}).Where("event_id = ?", eventID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	var rows []model.PushNotificationModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return rows, total, nil
}

// CancelNotification deletes a row that has not been sent.
func CancelNotification(ctx context.Context, db *gorm.DB, eventID, id uuid.UUID) error {
	n, err := FindNotification(ctx, db, eventID, id)
	if err != nil {
		return err
	}
	if n.Status == model.NotificationStatusSent {
		return ErrAlreadySent
	}
	res := db.WithContext(ctx).
		Where("id = ? AND status <> ?", n.ID, model.NotificationStatusSent).
		Delete(&model.PushNotificationModel{})
	if res.Error != nil {
		return fmt.Errorf("cancel notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// sent by the processor in the meantime
		return ErrAlreadySent
	}
	return nil
}

func Stats(ctx context.Context, db *gorm.DB, h *push.Handle, eventID uuid.UUID) (*dto.NotificationStats, error) {
	ev, err := eventService.FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		N      int64
	}
	if err := db.WithContext(ctx).Model(&model.PushNotificationModel{}).
		Select("status, COUNT(*) AS n").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification stats: %w", err)
	}

	out := &dto.NotificationStats{}
	for _, r := range rows {
		out.Total += r.N
		switch r.Status {
		case model.NotificationStatusDraft:
			out.Draft = r.N
		case model.NotificationStatusSent:
			out.Sent = r.N
		case model.NotificationStatusScheduled:
			out.Scheduled = r.N
		case model.NotificationStatusFailed:
			out.Failed = r.N
		}
	}
	out.DispatchAvailable = h != nil && h.Available(ctx)
	out.Quota.Used = out.Sent
	if quota := ev.NotificationQuota(); quota > 0 {
		remaining := quota - int(out.Sent+out.Scheduled)
		if remaining < 0 {
			remaining = 0
		}
		out.Quota.Limit = &quota
		out.Quota.Remaining = &remaining
	}
	return out, nil
}

/* =======================================================================
   Device subscriptions
======================================================================= */

// Subscribe attaches a device token to event_<id>, plus the group topic when given.
func Subscribe(ctx context.Context, db *gorm.DB, h *push.Handle, eventID uuid.UUID, req dto.SubscribeRequest) (*dto.SubscriptionResult, error) {
	return manageTopics(ctx, db, h, eventID, req, true)
}

func Unsubscribe(ctx context.Context, db *gorm.DB, h *push.Handle, eventID uuid.UUID, req dto.SubscribeRequest) (*dto.SubscriptionResult, error) {
	return manageTopics(ctx, db, h, eventID, req, false)
}

func manageTopics(ctx context.Context, db *gorm.DB, h *push.Handle, eventID uuid.UUID, req dto.SubscribeRequest, subscribe bool) (*dto.SubscriptionResult, error) {
	if err := eventService.EnsureEventExists(ctx, db, eventID); err != nil {
		return nil, err
	}
	topics := []string{model.EventTopic(eventID)}
	if req.GroupID != nil {
		if err := ensureGroup(ctx, db, eventID, *req.GroupID); err != nil {
			return nil, err
		}
		topics = append(topics, model.GroupTopic(eventID, *req.GroupID))
	}
	if h == nil {
		return nil, ErrDispatchUnavailable
	}
	d, err := h.Dispatcher(ctx)
	if err != nil {
		return nil, ErrDispatchUnavailable
	}

	for _, topic := range topics {
		if subscribe {
			err = d.Subscribe(ctx, req.Token, topic)
		} else {
			err = d.Unsubscribe(ctx, req.Token, topic)
		}
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("topic", topic).Bool("subscribe", subscribe).Msg("topic management failed")
			return nil, fiber.NewError(fiber.StatusBadGateway, "failed to update subscription: "+err.Error())
		}
	}
	return &dto.SubscriptionResult{Topics: topics}, nil
}

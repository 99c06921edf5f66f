package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	eventModel "savethedate_backend/internals/features/events/events/model"
	"savethedate_backend/internals/features/notifications/push_notifications/model"
	"savethedate_backend/internals/helpers/push"
)

type ProcessResult struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// DueNotifications returns scheduled rows whose time has come, oldest first.
func DueNotifications(ctx context.Context, db *gorm.DB, now time.Time) ([]model.PushNotificationModel, error) {
	var rows []model.PushNotificationModel
	if err := db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", model.NotificationStatusScheduled, now.UTC()).
		Order("scheduled_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load due notifications: %w", err)
	}
	return rows, nil
}

// ProcessDue dispatches every due row and records each outcome on its own.
// Rows that fail stay failed; the next run does not pick them up again.
func ProcessDue(ctx context.Context, db *gorm.DB, h *push.Handle, now time.Time) (ProcessResult, error) {
	var res ProcessResult
	rows, err := DueNotifications(ctx, db, now)
	if err != nil {
		return res, err
	}
	res.Due = len(rows)
	if res.Due == 0 {
		log.Ctx(ctx).Debug().Msg("no scheduled notifications due")
		return res, nil
	}

	events := map[uuid.UUID]*eventModel.EventModel{}
	var firstErr error
	for i := range rows {
		n := &rows[i]
		reason, err := quotaExhausted(ctx, db, events, n)
		if err == nil {
			if reason != "" {
				err = markFailed(ctx, db, n, reason)
			} else {
				err = Deliver(ctx, db, h, n, now)
			}
		}
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("notification_id", n.ID.String()).Msg("record delivery failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if n.Status == model.NotificationStatusSent {
			res.Sent++
		} else {
			res.Failed++
		}
	}
	log.Ctx(ctx).Info().Int("due", res.Due).Int("sent", res.Sent).Int("failed", res.Failed).Msg("scheduled notifications processed")
	return res, firstErr
}

// quotaExhausted re-checks the pack quota against rows already sent and returns
// the failure reason when n must not go out.
func quotaExhausted(ctx context.Context, db *gorm.DB, events map[uuid.UUID]*eventModel.EventModel, n *model.PushNotificationModel) (string, error) {
	ev, ok := events[n.EventID]
	if !ok {
		ev = &eventModel.EventModel{}
		if err := db.WithContext(ctx).First(ev, "id = ?", n.EventID).Error; err != nil {
			return "", fmt.Errorf("load event: %w", err)
		}
		events[n.EventID] = ev
	}
	quota := ev.NotificationQuota()
	if quota == 0 {
		return "", nil
	}
	sent, err := countCommitted(ctx, db, ev.ID, model.NotificationStatusSent)
	if err != nil {
		return "", fmt.Errorf("count sent notifications: %w", err)
	}
	if sent >= int64(quota) {
		return quotaError(sent, quota, ev.Pack).Error(), nil
	}
	return "", nil
}

func markFailed(ctx context.Context, db *gorm.DB, n *model.PushNotificationModel, reason string) error {
	n.Status = model.NotificationStatusFailed
	n.FailureReason = &reason
	log.Ctx(ctx).Warn().Str("notification_id", n.ID.String()).Str("reason", reason).Msg("push not delivered")
	if err := db.WithContext(ctx).Model(&model.PushNotificationModel{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{"status": n.Status, "failure_reason": reason}).Error; err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// Package jobs wires the background work (scheduled notifications and the
// event lifecycle) shared by the one-shot commands and the cron runner.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/configs"
	eventService "savethedate_backend/internals/features/events/events/service"
	notificationService "savethedate_backend/internals/features/notifications/push_notifications/service"
	"savethedate_backend/internals/helpers/push"
	"savethedate_backend/internals/helpers/storage"
	"savethedate_backend/internals/helpers/whatsapp"
)

const (
	DefaultNotificationsSpec = "* * * * *"
	DefaultLifecycleSpec     = "0 2 * * *"

	notificationsTimeout = 50 * time.Second
	lifecycleTimeout     = 10 * time.Minute
)

// Notifications sends every scheduled notification that is due at now.
func Notifications(ctx context.Context, db *gorm.DB, h *push.Handle, now time.Time) (notificationService.ProcessResult, error) {
	ctx, cancel := context.WithTimeout(ctx, notificationsTimeout)
	defer cancel()
	return notificationService.ProcessDue(ctx, db, h, now)
}

// LifecycleDeps are the optional collaborators of the lifecycle job.
type LifecycleDeps struct {
	Reminders   eventService.ReminderSender
	Objects     eventService.ObjectRemover
	GraceMonths int

	closers []func()
}

// LifecycleDepsFromEnv connects object storage and, when WHATSAPP_REMINDERS is on,
// the paired WhatsApp device. Anything unavailable is logged and left out.
func LifecycleDepsFromEnv(ctx context.Context) *LifecycleDeps {
	deps := &LifecycleDeps{
		Reminders:   eventService.LogReminderSender{},
		GraceMonths: configs.GetEnvInt("RETENTION_GRACE_MONTHS", eventService.DefaultRetentionGraceMonths),
	}

	if blobs, err := storage.NewFromEnv(ctx); err != nil {
		log.Warn().Err(err).Msg("object storage unavailable, purged photo files are kept")
	} else {
		deps.Objects = blobs
	}

	if configs.GetEnvBool("WHATSAPP_REMINDERS", false) {
		wa, err := whatsapp.Open(ctx, whatsapp.ConfigFromEnv())
		if err == nil {
			err = wa.Connect(ctx)
			if err != nil {
				wa.Close()
			}
		}
		if err != nil {
			log.Warn().Err(err).Msg("whatsapp unavailable, renewal reminders are only logged")
		} else {
			deps.Reminders = eventService.PhoneReminderSender{Texts: wa, Fallback: eventService.LogReminderSender{}}
			deps.closers = append(deps.closers, wa.Close)
		}
	}
	return deps
}

func (d *LifecycleDeps) Close() {
	if d == nil {
		return
	}
	for _, fn := range d.closers {
		fn()
	}
	d.closers = nil
}

// Lifecycle runs the status, reminder and (monthly or forced) retention sweeps.
func Lifecycle(ctx context.Context, db *gorm.DB, deps *LifecycleDeps, forceRetention bool, now time.Time) (eventService.LifecycleReport, error) {
	ctx, cancel := context.WithTimeout(ctx, lifecycleTimeout)
	defer cancel()

	opts := eventService.LifecycleOptions{
		Now:            now,
		ForceRetention: forceRetention,
		GraceMonths:    eventService.DefaultRetentionGraceMonths,
	}
	if deps != nil {
		opts.Reminders = deps.Reminders
		opts.Objects = deps.Objects
		opts.GraceMonths = deps.GraceMonths
	}
	return eventService.RunLifecycle(ctx, db, opts)
}

// NewScheduler registers both jobs on a cron that never overlaps a job with itself.
func NewScheduler(db *gorm.DB, h *push.Handle, deps *LifecycleDeps, notificationsSpec, lifecycleSpec string) (*cron.Cron, error) {
	logger := newCronLogger()
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(notificationsSpec, func() {
		if _, err := Notifications(context.Background(), db, h, time.Now()); err != nil {
			log.Error().Err(err).Msg("notification job failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule notifications %q: %w", notificationsSpec, err)
	}

	if _, err := c.AddFunc(lifecycleSpec, func() {
		if _, err := Lifecycle(context.Background(), db, deps, false, time.Now()); err != nil {
			log.Error().Err(err).Msg("lifecycle job failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule lifecycle %q: %w", lifecycleSpec, err)
	}
	return c, nil
}

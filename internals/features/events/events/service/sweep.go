package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/events/model"
	guestbookModel "savethedate_backend/internals/features/gallery/guestbook/model"
	photoModel "savethedate_backend/internals/features/gallery/photos/model"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
)

const DefaultRetentionGraceMonths = 3

// ObjectRemover deletes stored blobs by their public URL.
type ObjectRemover interface {
	DeleteByPublicURL(ctx context.Context, url string) error
}

type StatusSweepResult struct {
	Souvenir int `json:"souvenir"`
	Expired  int `json:"expired"`
	Failed   int `json:"failed"`
}

/* =======================================================================
   Status sweep
======================================================================= */

// StatusSweep moves live events past their date to souvenir, then expires live/souvenir
// events past expires_at. Each event is its own write; a failed row is counted and skipped.
func StatusSweep(ctx context.Context, db *gorm.DB, now time.Time) (StatusSweepResult, error) {
	var res StatusSweepResult
	now = now.UTC()

	var toSouvenir []model.EventModel
	if err := db.WithContext(ctx).
		Where("status = ? AND event_date < ?", model.EventStatusLive, now).
		Find(&toSouvenir).Error; err != nil {
		return res, fmt.Errorf("select live events: %w", err)
	}
	for _, ev := range toSouvenir {
		updates := map[string]any{"status": model.EventStatusSouvenir}
		if ev.ExpiresAt == nil {
			updates["expires_at"] = DefaultExpiry(ev.EventDate)
		}
		if err := db.WithContext(ctx).Model(&model.EventModel{}).
			Where("id = ? AND status = ?", ev.ID, model.EventStatusLive).
			Updates(updates).Error; err != nil {
			res.Failed++
			log.Ctx(ctx).Error().Err(err).Str("event_id", ev.ID.String()).Msg("souvenir transition failed")
			continue
		}
		res.Souvenir++
		log.Ctx(ctx).Info().Str("event_id", ev.ID.String()).Str("title", ev.Title).Msg("event -> souvenir")
	}

	var toExpire []model.EventModel
	if err := db.WithContext(ctx).
		Where("status IN ? AND expires_at IS NOT NULL AND expires_at < ?",
			[]string{model.EventStatusLive, model.EventStatusSouvenir}, now).
		Find(&toExpire).Error; err != nil {
		return res, fmt.Errorf("select expiring events: %w", err)
	}
	for _, ev := range toExpire {
		if err := db.WithContext(ctx).Model(&model.EventModel{}).
			Where("id = ?", ev.ID).
			Update("status", model.EventStatusExpired).Error; err != nil {
			res.Failed++
			log.Ctx(ctx).Error().Err(err).Str("event_id", ev.ID.String()).Msg("expire transition failed")
			continue
		}
		res.Expired++
		log.Ctx(ctx).Info().Str("event_id", ev.ID.String()).Str("title", ev.Title).Msg("event -> expired")
	}

	return res, nil
}

/* =======================================================================
   Reminder sweep
======================================================================= */

// ExpiringEvents lists souvenir events expiring within the reminder window that have a
// client contact and were not reminded for their current expiry yet.
func ExpiringEvents(ctx context.Context, db *gorm.DB, now time.Time) ([]model.EventModel, error) {
	now = now.UTC()
	var candidates []model.EventModel
	if err := db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?",
			model.EventStatusSouvenir, now, now.Add(reminderWindow)).
		Where("(client_email IS NOT NULL AND client_email <> '') OR (client_phone IS NOT NULL AND client_phone <> '')").
		Order("expires_at ASC").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("select expiring events: %w", err)
	}
	events := candidates[:0]
	for _, ev := range candidates {
		if remindedForExpiry(&ev) {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// remindedForExpiry reports whether the reminder went out inside the window of the
// current expires_at. A renewal moves the window past the last reminder.
func remindedForExpiry(ev *model.EventModel) bool {
	if ev.RenewalRemindedAt == nil || ev.ExpiresAt == nil {
		return false
	}
	return !ev.RenewalRemindedAt.Before(ev.ExpiresAt.Add(-reminderWindow))
}

// ReminderSweep hands every expiring event to the sender once per expiry and stamps
// renewal_reminded_at on success; delivery failures are counted, not fatal.
func ReminderSweep(ctx context.Context, db *gorm.DB, now time.Time, sender ReminderSender) (sent, failed int, err error) {
	if sender == nil {
		sender = LogReminderSender{}
	}
	events, err := ExpiringEvents(ctx, db, now)
	if err != nil {
		return 0, 0, err
	}
	for i := range events {
		ev := &events[i]
		if err := sender.SendRenewalReminder(ctx, ev); err != nil {
			failed++
			log.Ctx(ctx).Warn().Err(err).Str("event_id", ev.ID.String()).Msg("renewal reminder failed")
			continue
		}
		sent++
		if err := db.WithContext(ctx).Model(&model.EventModel{}).
			Where("id = ?", ev.ID).
			Update("renewal_reminded_at", now.UTC()).Error; err != nil {
			log.Ctx(ctx).Error().Err(err).Str("event_id", ev.ID.String()).Msg("record renewal reminder failed")
		}
	}
	return sent, failed, nil
}

/* =======================================================================
   Retention sweep
======================================================================= */

type RetentionResult struct {
	Events          int `json:"events"`
	GuestsScrubbed  int `json:"guests_scrubbed"`
	EntriesRenamed  int `json:"entries_renamed"`
	PhotosDeleted   int `json:"photos_deleted"`
	Failed          int `json:"failed"`
	BlobsNotDeleted int `json:"blobs_not_deleted"`
}

// RetentionCutoff is the expires_at bound below which expired events are redacted.
// A grace of zero or less means the default.
func RetentionCutoff(now time.Time, graceMonths int) time.Time {
	if graceMonths <= 0 {
		graceMonths = DefaultRetentionGraceMonths
	}
	return now.UTC().Add(-time.Duration(graceMonths) * monthDuration)
}

// RetentionSweep redacts personal data of events expired for longer than the grace period:
// guest email/phone cleared, guestbook authors anonymized, photos deleted.
// Every write only touches rows that still carry data, so a re-run changes nothing.
// Blob removal is best effort and happens after the event's transaction commits.
func RetentionSweep(ctx context.Context, db *gorm.DB, now time.Time, graceMonths int, objects ObjectRemover) (RetentionResult, error) {
	var res RetentionResult
	now = now.UTC()

	var events []model.EventModel
	if err := db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.EventStatusExpired, RetentionCutoff(now, graceMonths)).
		Find(&events).Error; err != nil {
		return res, fmt.Errorf("select expired events: %w", err)
	}

	for _, ev := range events {
		urls, counts, err := purgeEvent(ctx, db, ev.ID, now)
		if err != nil {
			res.Failed++
			log.Ctx(ctx).Error().Err(err).Str("event_id", ev.ID.String()).Msg("retention purge failed")
			continue
		}
		res.Events++
		res.GuestsScrubbed += counts.guests
		res.EntriesRenamed += counts.entries
		res.PhotosDeleted += counts.photos

		if objects == nil {
			continue
		}
		for _, u := range urls {
			if err := objects.DeleteByPublicURL(ctx, u); err != nil {
				res.BlobsNotDeleted++
				log.Ctx(ctx).Warn().Err(err).Str("url", u).Msg("photo blob delete failed")
			}
		}
	}

	log.Ctx(ctx).Info().
		Int("events", res.Events).
		Int("guests", res.GuestsScrubbed).
		Int("entries", res.EntriesRenamed).
		Int("photos", res.PhotosDeleted).
		Int("failed", res.Failed).
		Msg("retention sweep done")
	return res, nil
}

type purgeCounts struct {
	guests, entries, photos int
}

func purgeEvent(ctx context.Context, db *gorm.DB, eventID uuid.UUID, now time.Time) ([]string, purgeCounts, error) {
	var (
		urls   []string
		counts purgeCounts
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := tx.Model(&guestModel.GuestModel{}).
			Where("event_id = ? AND (email IS NOT NULL OR phone IS NOT NULL)", eventID).
			Updates(map[string]any{"email": nil, "phone": nil})
		if r.Error != nil {
			return fmt.Errorf("scrub guests: %w", r.Error)
		}
		counts.guests = int(r.RowsAffected)

		r = tx.Model(&guestbookModel.GuestbookEntryModel{}).
			Where("event_id = ? AND author_name <> ?", eventID, guestbookModel.AnonymousAuthor).
			Update("author_name", guestbookModel.AnonymousAuthor)
		if r.Error != nil {
			return fmt.Errorf("anonymize guestbook: %w", r.Error)
		}
		counts.entries = int(r.RowsAffected)

		var photos []photoModel.PhotoModel
		if err := tx.Select("id", "url", "thumbnail_url").Where("event_id = ?", eventID).Find(&photos).Error; err != nil {
			return fmt.Errorf("list photos: %w", err)
		}
		for _, p := range photos {
			urls = append(urls, p.URL)
			if p.ThumbnailURL != nil && *p.ThumbnailURL != "" {
				urls = append(urls, *p.ThumbnailURL)
			}
		}
		r = tx.Where("event_id = ?", eventID).Delete(&photoModel.PhotoModel{})
		if r.Error != nil {
			return fmt.Errorf("delete photos: %w", r.Error)
		}
		counts.photos = int(r.RowsAffected)

		if err := tx.Model(&model.EventModel{}).
			Where("id = ? AND data_purged_at IS NULL", eventID).
			Update("data_purged_at", now).Error; err != nil {
			return fmt.Errorf("mark purged: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, purgeCounts{}, err
	}
	return urls, counts, nil
}

/* =======================================================================
   Full job
======================================================================= */

type LifecycleOptions struct {
	Now            time.Time
	ForceRetention bool
	GraceMonths    int
	Reminders      ReminderSender
	Objects        ObjectRemover
}

type LifecycleReport struct {
	Status          StatusSweepResult `json:"status"`
	RemindersSent   int               `json:"reminders_sent"`
	RemindersFailed int               `json:"reminders_failed"`
	RetentionRan    bool              `json:"retention_ran"`
	Retention       RetentionResult   `json:"retention"`
}

// RunLifecycle runs the status sweep, the reminder sweep, and on the first day of the month
// (or when forced) the retention sweep. Any sweep failing at the query level fails the job,
// but later sweeps still run.
func RunLifecycle(ctx context.Context, db *gorm.DB, opts LifecycleOptions) (LifecycleReport, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	var (
		report   LifecycleReport
		firstErr error
	)
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	st, err := StatusSweep(ctx, db, now)
	report.Status = st
	keep(err)

	sent, failed, err := ReminderSweep(ctx, db, now, opts.Reminders)
	report.RemindersSent, report.RemindersFailed = sent, failed
	keep(err)

	if opts.ForceRetention || now.Day() == 1 {
		report.RetentionRan = true
		ret, err := RetentionSweep(ctx, db, now, opts.GraceMonths, opts.Objects)
		report.Retention = ret
		keep(err)
	}

	log.Ctx(ctx).Info().
		Int("souvenir", st.Souvenir).
		Int("expired", st.Expired).
		Int("reminders", sent).
		Bool("retention", report.RetentionRan).
		Msg("lifecycle job completed")
	return report, firstErr
}

package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"savethedate_backend/internals/databases/testdb"
	"savethedate_backend/internals/features/events/events/dto"
	"savethedate_backend/internals/features/events/events/model"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	guestbookModel "savethedate_backend/internals/features/gallery/guestbook/model"
	photoModel "savethedate_backend/internals/features/gallery/photos/model"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
)

type fakeRemover struct {
	deleted []string
	failOn  string
}

func (f *fakeRemover) DeleteByPublicURL(_ context.Context, url string) error {
	if url == f.failOn {
		return errors.New("bucket unavailable")
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func seedPersonalData(t *testing.T, db *gorm.DB, eventID uuid.UUID) {
	t.Helper()
	email, phone := "dana@example.com", "0600000000"
	require.NoError(t, db.Create(&guestModel.GuestModel{EventID: eventID, Name: "Dana", Email: &email, Phone: &phone}).Error)
	require.NoError(t, db.Create(&guestModel.GuestModel{EventID: eventID, Name: "Noam", Phone: &phone}).Error)
	require.NoError(t, db.Create(&guestModel.GuestModel{EventID: eventID, Name: "Sarah"}).Error)
	require.NoError(t, db.Create(&guestbookModel.GuestbookEntryModel{EventID: eventID, AuthorName: "Dana", Message: "Mazal tov"}).Error)
	thumb := "https://cdn.example.com/savethedate/photos/a_thumb.webp"
	require.NoError(t, db.Create(&photoModel.PhotoModel{EventID: eventID, URL: "https://cdn.example.com/savethedate/photos/a.webp", ThumbnailURL: &thumb}).Error)
}

func TestRetentionSweepIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	now := at(2026, 6, 1)

	longAgo := at(2026, 1, 1)
	old := seedEvent(t, db, "old", model.EventStatusExpired, at(2025, 1, 1), func(e *model.EventModel) { e.ExpiresAt = &longAgo })
	seedPersonalData(t, db, old.ID)

	recent := at(2026, 4, 1)
	fresh := seedEvent(t, db, "recent", model.EventStatusExpired, at(2025, 4, 1), func(e *model.EventModel) { e.ExpiresAt = &recent })
	seedPersonalData(t, db, fresh.ID)

	objects := &fakeRemover{failOn: "https://cdn.example.com/savethedate/photos/a_thumb.webp"}
	res, err := RetentionSweep(bg, db, now, DefaultRetentionGraceMonths, objects)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events)
	assert.Equal(t, 2, res.GuestsScrubbed)
	assert.Equal(t, 1, res.EntriesRenamed)
	assert.Equal(t, 1, res.PhotosDeleted)
	assert.Equal(t, 1, res.BlobsNotDeleted)
	assert.Len(t, objects.deleted, 1)

	var withContact int64
	require.NoError(t, db.Model(&guestModel.GuestModel{}).
		Where("event_id = ? AND (email IS NOT NULL OR phone IS NOT NULL)", old.ID).
		Count(&withContact).Error)
	assert.Zero(t, withContact)

	var entry guestbookModel.GuestbookEntryModel
	require.NoError(t, db.First(&entry, "event_id = ?", old.ID).Error)
	assert.Equal(t, guestbookModel.AnonymousAuthor, entry.AuthorName)

	purged := reloadEvent(t, db, old)
	require.NotNil(t, purged.DataPurgedAt)
	firstPurge := *purged.DataPurgedAt

	// still inside the grace period
	require.NoError(t, db.Model(&guestModel.GuestModel{}).
		Where("event_id = ? AND email IS NOT NULL", fresh.ID).
		Count(&withContact).Error)
	assert.EqualValues(t, 1, withContact)

	// second run on the same data changes nothing
	res, err = RetentionSweep(bg, db, now.Add(24*time.Hour), DefaultRetentionGraceMonths, objects)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events)
	assert.Zero(t, res.GuestsScrubbed)
	assert.Zero(t, res.EntriesRenamed)
	assert.Zero(t, res.PhotosDeleted)
	assert.True(t, firstPurge.Equal(*reloadEvent(t, db, old).DataPurgedAt))

	var guests []guestModel.GuestModel
	require.NoError(t, db.Where("event_id = ?", old.ID).Order("name").Find(&guests).Error)
	require.Len(t, guests, 3)
	assert.Equal(t, "Dana", guests[0].Name)
}

func TestRunLifecycleRetentionOnFirstOfMonth(t *testing.T) {
	db := testdb.New(t)
	longAgo := at(2025, 12, 1)
	ev := seedEvent(t, db, "monthly", model.EventStatusExpired, at(2024, 12, 1), func(e *model.EventModel) { e.ExpiresAt = &longAgo })
	seedPersonalData(t, db, ev.ID)

	report, err := RunLifecycle(bg, db, LifecycleOptions{Now: at(2026, 6, 15), GraceMonths: DefaultRetentionGraceMonths})
	require.NoError(t, err)
	assert.False(t, report.RetentionRan)
	assert.Nil(t, reloadEvent(t, db, ev).DataPurgedAt)

	report, err = RunLifecycle(bg, db, LifecycleOptions{Now: at(2026, 7, 1), GraceMonths: DefaultRetentionGraceMonths})
	require.NoError(t, err)
	assert.True(t, report.RetentionRan)
	assert.Equal(t, 1, report.Retention.Events)

	report, err = RunLifecycle(bg, db, LifecycleOptions{Now: at(2026, 7, 2), ForceRetention: true, GraceMonths: DefaultRetentionGraceMonths})
	require.NoError(t, err)
	assert.True(t, report.RetentionRan)
	assert.Zero(t, report.Retention.GuestsScrubbed)
}

func TestRetentionGraceDefaults(t *testing.T) {
	now := at(2026, 7, 1)
	want := RetentionCutoff(now, DefaultRetentionGraceMonths)
	assert.True(t, want.Equal(RetentionCutoff(now, 0)))
	assert.True(t, want.Equal(RetentionCutoff(now, -1)))
	assert.True(t, now.Add(-monthDuration).Equal(RetentionCutoff(now, 1)))

	db := testdb.New(t)
	yesterday := now.Add(-24 * time.Hour)
	ev := seedEvent(t, db, "just-expired", model.EventStatusExpired, at(2025, 6, 1), func(e *model.EventModel) { e.ExpiresAt = &yesterday })
	seedPersonalData(t, db, ev.ID)

	report, err := RunLifecycle(bg, db, LifecycleOptions{Now: now, ForceRetention: true})
	require.NoError(t, err)
	assert.Zero(t, report.Retention.Events)
	assert.Nil(t, reloadEvent(t, db, ev).DataPurgedAt)
}

func TestStatusSweepSurfacesStoreFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
		WillReturnError(errors.New("connection reset"))

	_, err = StatusSweep(bg, db, at(2026, 6, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, err = RunLifecycle(bg, db, LifecycleOptions{Now: at(2026, 6, 2)})
	assert.Error(t, err)
}

func TestDeleteEventCascades(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, "doomed", model.EventStatusExpired, at(2025, 1, 1))
	keep := seedEvent(t, db, "keep", model.EventStatusLive, at(2026, 9, 1))
	seedPersonalData(t, db, ev.ID)
	seedPersonalData(t, db, keep.ID)

	se := &subEventModel.SubEventModel{EventID: ev.ID, Slug: "mairie", Name: "Mairie", Date: at(2025, 1, 1)}
	require.NoError(t, db.Create(se).Error)
	grp := &groupModel.InvitationGroupModel{EventID: ev.ID, Name: "Famille"}
	require.NoError(t, db.Create(grp).Error)
	require.NoError(t, db.Create(&groupModel.GroupSubEventModel{GroupID: grp.ID, SubEventID: se.ID}).Error)
	var g guestModel.GuestModel
	require.NoError(t, db.First(&g, "event_id = ?", ev.ID).Error)
	require.NoError(t, db.Create(&guestModel.GuestSubEventRsvpModel{GuestID: g.ID, SubEventID: se.ID, Status: "confirmed"}).Error)

	require.NoError(t, DeleteEvent(bg, db, ev.ID))

	for _, m := range []any{
		&guestModel.GuestModel{}, &subEventModel.SubEventModel{}, &groupModel.InvitationGroupModel{},
		&photoModel.PhotoModel{}, &guestbookModel.GuestbookEntryModel{},
	} {
		var n int64
		require.NoError(t, db.Model(m).Where("event_id = ?", ev.ID).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
	var links, rsvps int64
	require.NoError(t, db.Model(&groupModel.GroupSubEventModel{}).Count(&links).Error)
	require.NoError(t, db.Model(&guestModel.GuestSubEventRsvpModel{}).Count(&rsvps).Error)
	assert.Zero(t, links)
	assert.Zero(t, rsvps)

	var kept int64
	require.NoError(t, db.Model(&guestModel.GuestModel{}).Where("event_id = ?", keep.ID).Count(&kept).Error)
	assert.EqualValues(t, 3, kept)

	assert.ErrorIs(t, DeleteEvent(bg, db, ev.ID), ErrEventNotFound)
}

func TestCreateAndUpdateEventSlug(t *testing.T) {
	db := testdb.New(t)
	req := dto.CreateEventRequest{Slug: " Dana-Noam ", Type: "wedding", Title: "Dana & Noam", EventDate: at(2026, 9, 12), Pack: model.PackVIP}

	ev, err := CreateEvent(bg, db, req)
	require.NoError(t, err)
	assert.Equal(t, "dana-noam", ev.Slug)
	assert.Equal(t, model.EventStatusDraft, ev.Status)
	assert.Equal(t, []string{"fr"}, []string(ev.Languages))

	_, err = CreateEvent(bg, db, req)
	assert.ErrorIs(t, err, ErrSlugTaken)

	other, err := CreateEvent(bg, db, dto.CreateEventRequest{Slug: "other", Type: "wedding", Title: "Other", EventDate: at(2026, 10, 1), Pack: model.PackEssential})
	require.NoError(t, err)

	taken := "dana-noam"
	_, err = UpdateEvent(bg, db, other.ID, dto.UpdateEventRequest{Slug: &taken})
	assert.ErrorIs(t, err, ErrSlugTaken)

	title := "  Autre titre "
	updated, err := UpdateEvent(bg, db, other.ID, dto.UpdateEventRequest{Title: &title, Config: map[string]any{"modules": map[string]any{"rsvp": map[string]any{"enabled": true}}}})
	require.NoError(t, err)
	assert.Equal(t, "Autre titre", updated.Title)
	assert.True(t, updated.Modules().RSVP.Enabled)

	byRef, err := FindEventByRef(bg, db, "DANA-NOAM")
	require.NoError(t, err)
	assert.Equal(t, ev.ID, byRef.ID)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"savethedate_backend/internals/databases/testdb"
	"savethedate_backend/internals/features/events/events/model"
)

var bg = context.Background()

func seedEvent(t *testing.T, db *gorm.DB, slug, status string, eventDate time.Time, mutate ...func(*model.EventModel)) *model.EventModel {
	t.Helper()
	ev := &model.EventModel{
		Slug:      slug,
		Type:      "wedding",
		Title:     "Mariage " + slug,
		EventDate: eventDate,
		Status:    status,
		Pack:      model.PackPremium,
	}
	for _, m := range mutate {
		m(ev)
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func reloadEvent(t *testing.T, db *gorm.DB, ev *model.EventModel) *model.EventModel {
	t.Helper()
	var out model.EventModel
	require.NoError(t, db.First(&out, "id = ?", ev.ID).Error)
	return &out
}

func at(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

func TestStatusSweepLiveToSouvenir(t *testing.T) {
	db := testdb.New(t)
	T := at(2026, 6, 20)
	ev := seedEvent(t, db, "scenario-d", model.EventStatusLive, T)
	future := seedEvent(t, db, "future", model.EventStatusLive, at(2026, 12, 1))
	draft := seedEvent(t, db, "draft", model.EventStatusDraft, T)

	res, err := StatusSweep(bg, db, T.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Souvenir)
	assert.Zero(t, res.Expired)

	got := reloadEvent(t, db, ev)
	assert.Equal(t, model.EventStatusSouvenir, got.Status)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, T.Add(365*24*time.Hour).Equal(*got.ExpiresAt))

	assert.Equal(t, model.EventStatusLive, reloadEvent(t, db, future).Status)
	assert.Equal(t, model.EventStatusDraft, reloadEvent(t, db, draft).Status)

	// a second run is a no-op
	res, err = StatusSweep(bg, db, T.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, res.Souvenir)
}

func TestStatusSweepExpires(t *testing.T) {
	db := testdb.New(t)
	past := at(2025, 1, 10)
	exp := at(2026, 1, 10)
	souvenir := seedEvent(t, db, "old", model.EventStatusSouvenir, past, func(e *model.EventModel) { e.ExpiresAt = &exp })
	keptExp := at(2027, 1, 10)
	kept := seedEvent(t, db, "kept", model.EventStatusSouvenir, past, func(e *model.EventModel) { e.ExpiresAt = &keptExp })
	// live with an explicit expiry long gone goes through souvenir to expired in one run
	live := seedEvent(t, db, "live-old", model.EventStatusLive, past, func(e *model.EventModel) { e.ExpiresAt = &exp })

	res, err := StatusSweep(bg, db, at(2026, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Souvenir)
	assert.Equal(t, 2, res.Expired)

	assert.Equal(t, model.EventStatusExpired, reloadEvent(t, db, souvenir).Status)
	assert.Equal(t, model.EventStatusExpired, reloadEvent(t, db, live).Status)
	assert.Equal(t, model.EventStatusSouvenir, reloadEvent(t, db, kept).Status)
}

func TestSetStatus(t *testing.T) {
	db := testdb.New(t)
	date := at(2026, 9, 12)
	ev := seedEvent(t, db, "publish", model.EventStatusDraft, date)

	_, err := SetStatus(bg, db, ev.ID, "archived")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, err.(*fiber.Error).Code)

	out, err := SetStatus(bg, db, ev.ID, model.EventStatusLive)
	require.NoError(t, err)
	require.NotNil(t, out.ExpiresAt)
	first := *reloadEvent(t, db, ev).ExpiresAt
	assert.True(t, date.Add(DefaultRetention).Equal(first))

	// going back and forth never moves an existing expiry
	_, err = SetStatus(bg, db, ev.ID, model.EventStatusDraft)
	require.NoError(t, err)
	_, err = SetStatus(bg, db, ev.ID, model.EventStatusLive)
	require.NoError(t, err)
	assert.True(t, first.Equal(*reloadEvent(t, db, ev).ExpiresAt))
}

func TestRenew(t *testing.T) {
	db := testdb.New(t)
	now := at(2026, 3, 1)

	futureExp := at(2026, 3, 20)
	active := seedEvent(t, db, "active", model.EventStatusSouvenir, at(2025, 3, 20), func(e *model.EventModel) { e.ExpiresAt = &futureExp })
	out, err := Renew(bg, db, active.ID, 0, now)
	require.NoError(t, err)
	assert.True(t, futureExp.Add(12*monthDuration).Equal(*out.ExpiresAt))
	assert.Equal(t, model.EventStatusSouvenir, out.Status)

	pastExp := at(2026, 1, 1)
	expired := seedEvent(t, db, "expired", model.EventStatusExpired, at(2025, 1, 1), func(e *model.EventModel) { e.ExpiresAt = &pastExp })
	out, err = Renew(bg, db, expired.ID, 2, now)
	require.NoError(t, err)
	assert.True(t, now.Add(2*monthDuration).Equal(*out.ExpiresAt))
	got := reloadEvent(t, db, expired)
	assert.Equal(t, model.EventStatusSouvenir, got.Status)

	_, err = Renew(bg, db, expired.ID, 61, now)
	require.Error(t, err)
}

func TestIntrospect(t *testing.T) {
	now := at(2026, 3, 1)
	exp := now.Add(10 * 24 * time.Hour)

	info := Introspect(&model.EventModel{Status: model.EventStatusDraft, EventDate: now.Add(72 * time.Hour)}, now)
	assert.Equal(t, 3, info.DaysUntilEvent)
	assert.Nil(t, info.DaysUntilExpiration)
	assert.Equal(t, []string{ActionPublish}, info.AvailableActions)

	info = Introspect(&model.EventModel{Status: model.EventStatusLive, EventDate: now.Add(-time.Hour)}, now)
	assert.Equal(t, -1, info.DaysUntilEvent)
	assert.True(t, info.IsPast)
	assert.Equal(t, []string{ActionArchive}, info.AvailableActions)

	info = Introspect(&model.EventModel{Status: model.EventStatusLive, EventDate: now.Add(time.Hour)}, now)
	assert.Empty(t, info.AvailableActions)

	info = Introspect(&model.EventModel{Status: model.EventStatusSouvenir, EventDate: at(2025, 3, 1), ExpiresAt: &exp}, now)
	require.NotNil(t, info.DaysUntilExpiration)
	assert.Equal(t, 10, *info.DaysUntilExpiration)
	assert.True(t, info.IsExpiringSoon)
	assert.False(t, info.IsExpired)
	assert.Equal(t, []string{ActionRenew}, info.AvailableActions)

	gone := now.Add(-5 * 24 * time.Hour)
	info = Introspect(&model.EventModel{Status: model.EventStatusExpired, EventDate: at(2025, 3, 1), ExpiresAt: &gone}, now)
	assert.True(t, info.IsExpired)
	assert.Equal(t, -5, *info.DaysUntilExpiration)
	assert.Equal(t, []string{ActionRenew, ActionDelete}, info.AvailableActions)
}

type recordingSender struct {
	got  []string
	fail map[string]bool
}

func (r *recordingSender) SendRenewalReminder(_ context.Context, ev *model.EventModel) error {
	if r.fail[ev.Slug] {
		return errors.New("unreachable")
	}
	r.got = append(r.got, ev.Slug)
	return nil
}

type recordingTexts struct {
	phone, text string
}

func (r *recordingTexts) SendText(_ context.Context, phone, text string) error {
	r.phone, r.text = phone, text
	return nil
}

func TestReminderSweep(t *testing.T) {
	db := testdb.New(t)
	now := at(2026, 3, 1)
	soon := now.Add(20 * 24 * time.Hour)
	later := now.Add(45 * 24 * time.Hour)
	email := "client@example.com"
	phone := "+33600000000"

	seedEvent(t, db, "soon-email", model.EventStatusSouvenir, at(2025, 3, 1), func(e *model.EventModel) {
		e.ExpiresAt = &soon
		e.ClientEmail = &email
	})
	seedEvent(t, db, "soon-phone", model.EventStatusSouvenir, at(2025, 3, 1), func(e *model.EventModel) {
		e.ExpiresAt = &soon
		e.ClientPhone = &phone
	})
	seedEvent(t, db, "soon-nocontact", model.EventStatusSouvenir, at(2025, 3, 1), func(e *model.EventModel) { e.ExpiresAt = &soon })
	seedEvent(t, db, "later", model.EventStatusSouvenir, at(2025, 3, 1), func(e *model.EventModel) {
		e.ExpiresAt = &later
		e.ClientEmail = &email
	})
	seedEvent(t, db, "live-soon", model.EventStatusLive, at(2026, 3, 10), func(e *model.EventModel) {
		e.ExpiresAt = &soon
		e.ClientEmail = &email
	})

	rec := &recordingSender{fail: map[string]bool{"soon-phone": true}}
	sent, failed, err := ReminderSweep(bg, db, now, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"soon-email"}, rec.got)
}

func TestReminderSweepOncePerExpiry(t *testing.T) {
	db := testdb.New(t)
	day := at(2026, 3, 1)
	soon := day.Add(20 * 24 * time.Hour)
	email := "client@example.com"
	withContact := func(e *model.EventModel) {
		e.ExpiresAt = &soon
		e.ClientEmail = &email
	}
	once := seedEvent(t, db, "once", model.EventStatusSouvenir, at(2025, 3, 1), withContact)
	seedEvent(t, db, "flaky", model.EventStatusSouvenir, at(2025, 3, 1), withContact)

	rec := &recordingSender{fail: map[string]bool{"flaky": true}}
	sent, failed, err := ReminderSweep(bg, db, day, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
	require.NotNil(t, reloadEvent(t, db, once).RenewalRemindedAt)

	// next day: only the failed one goes out again
	rec.fail = nil
	sent, failed, err = ReminderSweep(bg, db, day.Add(24*time.Hour), rec)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Zero(t, failed)
	assert.Equal(t, []string{"once", "flaky"}, rec.got)

	sent, _, err = ReminderSweep(bg, db, day.Add(48*time.Hour), rec)
	require.NoError(t, err)
	assert.Zero(t, sent)

	// a renewal re-arms the reminder for the new expiry
	renewed := soon.Add(monthDuration)
	require.NoError(t, db.Model(&model.EventModel{}).Where("id = ?", once.ID).Update("expires_at", renewed).Error)
	sent, _, err = ReminderSweep(bg, db, renewed.Add(-10*24*time.Hour), rec)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "once", rec.got[len(rec.got)-1])
}

func TestPhoneReminderSender(t *testing.T) {
	texts := &recordingTexts{}
	fallback := &recordingSender{}
	s := PhoneReminderSender{Texts: texts, Fallback: fallback}

	exp := at(2026, 4, 1)
	phone := "+33611111111"
	name := "Dana"
	require.NoError(t, s.SendRenewalReminder(bg, &model.EventModel{Slug: "a", Title: "Dana & Noam", ClientPhone: &phone, ClientName: &name, ExpiresAt: &exp}))
	assert.Equal(t, phone, texts.phone)
	assert.Contains(t, texts.text, "Bonjour Dana")
	assert.Contains(t, texts.text, "01/04/2026")

	require.NoError(t, s.SendRenewalReminder(bg, &model.EventModel{Slug: "email-only"}))
	assert.Equal(t, []string{"email-only"}, fallback.got)
}

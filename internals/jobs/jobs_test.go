package jobs

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savethedate_backend/internals/databases/testdb"
	eventModel "savethedate_backend/internals/features/events/events/model"
	eventService "savethedate_backend/internals/features/events/events/service"
	"savethedate_backend/internals/helpers/push"
)

type texts struct {
	mu   sync.Mutex
	sent map[string]string
}

func (t *texts) SendText(_ context.Context, phone, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sent == nil {
		t.sent = map[string]string{}
	}
	t.sent[phone] = text
	return nil
}

func TestLifecycleSendsPhoneReminders(t *testing.T) {
	db := testdb.New(t)
	now := time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)
	expires := now.Add(10 * 24 * time.Hour)
	phone := "06 12 34 56 78"
	name := "Camille"
	ev := &eventModel.EventModel{
		Slug: "souvenir-soon", Type: "wedding", Title: "Camille & Sam",
		EventDate: now.AddDate(0, -11, 0), Status: eventModel.EventStatusSouvenir,
		Pack: eventModel.PackPremium, ExpiresAt: &expires, ClientPhone: &phone, ClientName: &name,
	}
	require.NoError(t, db.Create(ev).Error)

	rec := &texts{}
	deps := &LifecycleDeps{
		Reminders:   eventService.PhoneReminderSender{Texts: rec},
		GraceMonths: eventService.DefaultRetentionGraceMonths,
	}

	report, err := Lifecycle(context.Background(), db, deps, false, now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RemindersSent)
	assert.False(t, report.RetentionRan)
	require.Contains(t, rec.sent, phone)
	assert.Contains(t, rec.sent[phone], "Bonjour Camille")
	assert.Contains(t, rec.sent[phone], "25/10/2026")
}

func TestLifecycleWithoutDeps(t *testing.T) {
	db := testdb.New(t)
	report, err := Lifecycle(context.Background(), db, nil, true, time.Now())
	require.NoError(t, err)
	assert.True(t, report.RetentionRan)
	assert.Zero(t, report.Retention.Events)
}

func TestNotificationsNothingDue(t *testing.T) {
	db := testdb.New(t)
	res, err := Notifications(context.Background(), db, push.Static(nil), time.Now())
	require.NoError(t, err)
	assert.Zero(t, res.Due)
}

func TestNewScheduler(t *testing.T) {
	db := testdb.New(t)

	c, err := NewScheduler(db, push.Static(nil), nil, DefaultNotificationsSpec, DefaultLifecycleSpec)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	_, err = NewScheduler(db, push.Static(nil), nil, "every minute", DefaultLifecycleSpec)
	assert.Error(t, err)

	_, err = NewScheduler(db, push.Static(nil), nil, DefaultNotificationsSpec, "0 25 * * *")
	assert.Error(t, err)
}

func TestLifecycleDepsCloseIsIdempotent(t *testing.T) {
	calls := 0
	d := &LifecycleDeps{closers: []func(){func() { calls++ }}}
	d.Close()
	d.Close()
	assert.Equal(t, 1, calls)

	var nilDeps *LifecycleDeps
	nilDeps.Close()
}

func TestCronPanicsGoToZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	job := cron.NewChain(cron.Recover(newCronLogger())).Then(cron.FuncJob(func() { panic("boom") }))
	require.NotPanics(t, job.Run)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"scheduler":"cron"`)
	assert.Contains(t, out, "boom")
}

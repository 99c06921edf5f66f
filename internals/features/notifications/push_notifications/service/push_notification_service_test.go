package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"savethedate_backend/internals/databases/testdb"
	eventModel "savethedate_backend/internals/features/events/events/model"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	"savethedate_backend/internals/features/notifications/push_notifications/dto"
	"savethedate_backend/internals/features/notifications/push_notifications/model"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/helpers/push"
)

var ctx = context.Background()

var now = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type sent struct {
	topic string
	data  map[string]string
}

type recordingDispatcher struct {
	mu       sync.Mutex
	sent     []sent
	subs     []string
	failWith error
}

func (r *recordingDispatcher) SendToTopic(_ context.Context, topic, _, _ string, data map[string]string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return "", r.failWith
	}
	r.sent = append(r.sent, sent{topic: topic, data: data})
	return "msg-1", nil
}

func (r *recordingDispatcher) Subscribe(_ context.Context, token, topic string) error {
	r.subs = append(r.subs, "+"+topic)
	return r.failWith
}

func (r *recordingDispatcher) Unsubscribe(_ context.Context, token, topic string) error {
	r.subs = append(r.subs, "-"+topic)
	return r.failWith
}

func seedEvent(t *testing.T, db *gorm.DB, pack string) *eventModel.EventModel {
	t.Helper()
	ev := &eventModel.EventModel{
		Slug: uuid.NewString()[:8], Type: "wedding", Title: "Notifs",
		EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Pack:      pack,
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) model.PushNotificationModel {
	t.Helper()
	var n model.PushNotificationModel
	require.NoError(t, db.First(&n, "id = ?", id).Error)
	return n
}

func TestCreateImmediateSend(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackPremium)
	rec := &recordingDispatcher{}

	n, err := CreateNotification(ctx, db, push.Static(rec), ev.ID, dto.CreateNotificationRequest{Title: " Bienvenue ", Message: "Le bus part à 18h"}, now)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusSent, n.Status)
	assert.Equal(t, "Bienvenue", n.Title)

	stored := reload(t, db, n.ID)
	assert.Equal(t, model.NotificationStatusSent, stored.Status)
	require.NotNil(t, stored.SentAt)
	assert.True(t, stored.SentAt.Equal(now))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "event_"+ev.ID.String(), rec.sent[0].topic)
	assert.Equal(t, ev.ID.String(), rec.sent[0].data["event_id"])
}

func TestCreateRecordsFailureWithoutError(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackPremium)

	n, err := CreateNotification(ctx, db, push.Static(&recordingDispatcher{failWith: errors.New("fcm down")}), ev.ID,
		dto.CreateNotificationRequest{Title: "t", Message: "m"}, now)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusFailed, n.Status)
	stored := reload(t, db, n.ID)
	require.NotNil(t, stored.FailureReason)
	assert.Equal(t, "fcm down", *stored.FailureReason)
	assert.Nil(t, stored.SentAt)

	n, err = CreateNotification(ctx, db, push.Static(nil), ev.ID, dto.CreateNotificationRequest{Title: "t", Message: "m"}, now)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusFailed, n.Status)
}

func TestEssentialQuota(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackEssential)
	h := push.Static(&recordingDispatcher{})

	for i := 0; i < eventModel.EssentialNotificationQuota; i++ {
		_, err := CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "t", Message: "m"}, now)
		require.NoError(t, err)
	}
	_, err := CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "t", Message: "m"}, now)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, helper.ErrorCode(err))
	assert.Contains(t, err.Error(), "5/5")

	stats, err := Stats(ctx, db, h, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Sent)
	assert.Equal(t, int64(5), stats.Quota.Used)
	require.NotNil(t, stats.Quota.Limit)
	assert.Equal(t, 5, *stats.Quota.Limit)
	assert.Equal(t, 0, *stats.Quota.Remaining)
	assert.True(t, stats.DispatchAvailable)

	vip := seedEvent(t, db, eventModel.PackVIP)
	stats, err = Stats(ctx, db, push.Static(nil), vip.ID)
	require.NoError(t, err)
	assert.Nil(t, stats.Quota.Limit)
	assert.Nil(t, stats.Quota.Remaining)
	assert.False(t, stats.DispatchAvailable)
}

func TestEssentialQuotaCountsScheduled(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackEssential)
	rec := &recordingDispatcher{}
	h := push.Static(rec)
	later := now.Add(time.Hour)

	for i := 0; i < eventModel.EssentialNotificationQuota; i++ {
		_, err := CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "t", Message: "m", ScheduledAt: &later}, now)
		require.NoError(t, err)
	}
	_, err := CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "t", Message: "m", ScheduledAt: &later}, now)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, helper.ErrorCode(err))

	stats, err := Stats(ctx, db, h, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *stats.Quota.Remaining)

	// rows written before the event moved to the essential pack
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&model.PushNotificationModel{
			EventID: ev.ID, Title: "old", Message: "m",
			ScheduledAt: &later, Status: model.NotificationStatusScheduled,
		}).Error)
	}

	res, err := ProcessDue(ctx, db, h, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ProcessResult{Due: 8, Sent: 5, Failed: 3}, res)
	assert.Len(t, rec.sent, eventModel.EssentialNotificationQuota)

	failed, total, err := ListNotifications(ctx, db, ev.ID, model.NotificationStatusFailed, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.NotNil(t, failed[0].FailureReason)
	assert.Contains(t, *failed[0].FailureReason, "5/5")
}

func TestScheduledProcessingAndCancel(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackPremium)
	group := groupModel.InvitationGroupModel{EventID: ev.ID, Name: "Famille", Color: groupModel.DefaultGroupColor}
	require.NoError(t, db.Create(&group).Error)
	rec := &recordingDispatcher{}
	h := push.Static(rec)

	due := now.Add(-time.Minute)
	later := now.Add(time.Hour)
	a, err := CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "a", Message: "m", ScheduledAt: &due, TargetGroupID: &group.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusScheduled, a.Status)
	b, err := CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "b", Message: "m", ScheduledAt: &later}, now)
	require.NoError(t, err)
	assert.Empty(t, rec.sent)

	res, err := ProcessDue(ctx, db, h, now)
	require.NoError(t, err)
	assert.Equal(t, ProcessResult{Due: 1, Sent: 1}, res)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, model.GroupTopic(ev.ID, group.ID), rec.sent[0].topic)
	assert.Equal(t, model.NotificationStatusSent, reload(t, db, a.ID).Status)

	// idempotent
	res, err = ProcessDue(ctx, db, h, now)
	require.NoError(t, err)
	assert.Zero(t, res.Due)

	assert.Equal(t, fiber.StatusBadRequest, helper.ErrorCode(CancelNotification(ctx, db, ev.ID, a.ID)))
	require.NoError(t, CancelNotification(ctx, db, ev.ID, b.ID))
	assert.Equal(t, fiber.StatusNotFound, helper.ErrorCode(CancelNotification(ctx, db, ev.ID, b.ID)))

	_, err = CreateNotification(ctx, db, h, ev.ID, dto.CreateNotificationRequest{Title: "x", Message: "m", TargetGroupID: ptr(uuid.New())}, now)
	assert.Equal(t, fiber.StatusNotFound, helper.ErrorCode(err))
}

func TestProcessFailureIsNotRetried(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackPremium)
	due := now.Add(-time.Hour)
	rec := &recordingDispatcher{failWith: errors.New("quota exceeded")}

	n, err := CreateNotification(ctx, db, push.Static(rec), ev.ID, dto.CreateNotificationRequest{Title: "a", Message: "m", ScheduledAt: &due}, now)
	require.NoError(t, err)

	res, err := ProcessDue(ctx, db, push.Static(rec), now)
	require.NoError(t, err)
	assert.Equal(t, ProcessResult{Due: 1, Failed: 1}, res)
	assert.Equal(t, model.NotificationStatusFailed, reload(t, db, n.ID).Status)

	rec.failWith = nil
	res, err = ProcessDue(ctx, db, push.Static(rec), now)
	require.NoError(t, err)
	assert.Zero(t, res.Due)
	assert.Empty(t, rec.sent)

	rows, total, err := ListNotifications(ctx, db, ev.ID, model.NotificationStatusFailed, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)
}

func TestProcessDueStorageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "push_notifications"`)).
		WillReturnError(errors.New("connection refused"))

	_, err = ProcessDue(ctx, db, push.Static(&recordingDispatcher{}), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeTopics(t *testing.T) {
	db := testdb.New(t)
	ev := seedEvent(t, db, eventModel.PackPremium)
	group := groupModel.InvitationGroupModel{EventID: ev.ID, Name: "Amis", Color: groupModel.DefaultGroupColor}
	require.NoError(t, db.Create(&group).Error)
	rec := &recordingDispatcher{}

	res, err := Subscribe(ctx, db, push.Static(rec), ev.ID, dto.SubscribeRequest{Token: "tok", GroupID: &group.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{model.EventTopic(ev.ID), model.GroupTopic(ev.ID, group.ID)}, res.Topics)

	_, err = Unsubscribe(ctx, db, push.Static(rec), ev.ID, dto.SubscribeRequest{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, []string{"+" + model.EventTopic(ev.ID), "+" + model.GroupTopic(ev.ID, group.ID), "-" + model.EventTopic(ev.ID)}, rec.subs)

	_, err = Subscribe(ctx, db, push.Static(nil), ev.ID, dto.SubscribeRequest{Token: "tok"})
	assert.Equal(t, fiber.StatusServiceUnavailable, helper.ErrorCode(err))

	_, err = Subscribe(ctx, db, push.Static(rec), uuid.New(), dto.SubscribeRequest{Token: "tok"})
	assert.Equal(t, fiber.StatusNotFound, helper.ErrorCode(err))
}

func ptr[T any](v T) *T { return &v }

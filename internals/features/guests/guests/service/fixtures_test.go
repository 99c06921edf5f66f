package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"savethedate_backend/internals/databases/testdb"
	eventModel "savethedate_backend/internals/features/events/events/model"
	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	subEventModel "savethedate_backend/internals/features/events/sub_events/model"
	"savethedate_backend/internals/features/guests/guests/model"
)

var ctx = context.Background()

type fixture struct {
	t  *testing.T
	db *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: testdb.New(t)}
}

func (f *fixture) event(slug, config string) *eventModel.EventModel {
	f.t.Helper()
	ev := &eventModel.EventModel{
		Slug:      slug,
		Type:      "wedding",
		Title:     "Mariage " + slug,
		EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Pack:      eventModel.PackPremium,
		Config:    datatypes.JSON(config),
	}
	require.NoError(f.t, f.db.Create(ev).Error)
	return ev
}

func (f *fixture) subEvent(eventID uuid.UUID, slug string, sortOrder int, date time.Time) *subEventModel.SubEventModel {
	f.t.Helper()
	se := &subEventModel.SubEventModel{
		EventID:   eventID,
		Slug:      slug,
		Name:      slug,
		Date:      date,
		SortOrder: sortOrder,
	}
	require.NoError(f.t, f.db.Create(se).Error)
	return se
}

func (f *fixture) group(eventID uuid.UUID, name string, subEvents ...*subEventModel.SubEventModel) *groupModel.InvitationGroupModel {
	f.t.Helper()
	grp := &groupModel.InvitationGroupModel{EventID: eventID, Name: name}
	require.NoError(f.t, f.db.Create(grp).Error)
	for _, se := range subEvents {
		require.NoError(f.t, f.db.Create(&groupModel.GroupSubEventModel{GroupID: grp.ID, SubEventID: se.ID}).Error)
	}
	return grp
}

func (f *fixture) guest(eventID uuid.UUID, name string, mutate ...func(*model.GuestModel)) *model.GuestModel {
	f.t.Helper()
	g := &model.GuestModel{EventID: eventID, Name: name}
	for _, m := range mutate {
		m(g)
	}
	require.NoError(f.t, f.db.Create(g).Error)
	return g
}

func (f *fixture) withCode(g *model.GuestModel) string {
	f.t.Helper()
	code, err := EnsurePersonalCode(ctx, f.db, g)
	require.NoError(f.t, err)
	return code
}

func (f *fixture) reload(g *model.GuestModel) *model.GuestModel {
	f.t.Helper()
	var out model.GuestModel
	require.NoError(f.t, f.db.First(&out, "id = ?", g.ID).Error)
	return &out
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time { return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC) }

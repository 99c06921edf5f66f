package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savethedate_backend/internals/databases/testdb"
	guestModel "savethedate_backend/internals/features/guests/guests/model"
	guestService "savethedate_backend/internals/features/guests/guests/service"
)

func TestSeedDemoEvent(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	res, err := SeedEventFromJSON(ctx, db, "data_demo_event.json")
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 5, res.Guests)
	assert.Equal(t, 5, res.Codes)

	var paul guestModel.GuestModel
	require.NoError(t, db.Where("event_id = ? AND name = ?", res.EventID, "Paul Durand").Take(&paul).Error)
	require.NotNil(t, paul.PersonalCode)

	program, err := guestService.BuildProgram(ctx, db, res.EventID, *paul.PersonalCode)
	require.NoError(t, err)
	assert.Equal(t, "Famille", program.GroupName)
	assert.Len(t, program.SubEvents, 4)

	again, err := SeedEventFromJSON(ctx, db, "data_demo_event.json")
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, res.EventID, again.EventID)

	var guests int64
	require.NoError(t, db.Model(&guestModel.GuestModel{}).Count(&guests).Error)
	assert.Equal(t, int64(5), guests)
}

func TestSeedRejectsUnknownReferences(t *testing.T) {
	db := testdb.New(t)
	seed := EventSeed{}
	seed.Event.Slug = "broken"
	seed.Event.Type = "wedding"
	seed.Event.Title = "Broken"
	seed.Event.Pack = "essential"
	seed.Event.EventDate = mustDate(t)
	seed.Guests = []GuestSeed{{Group: "Nobody"}}
	seed.Guests[0].Name = "Ghost"

	_, err := SeedEvent(context.Background(), db, seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown group "Nobody"`)

	var n int64
	require.NoError(t, db.Table("events").Count(&n).Error)
	assert.Zero(t, n, "transaction rolled back")
}

func mustDate(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, "2026-09-12")
	require.NoError(t, err)
	return d
}

package service

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

const rsvpConfig = `{"modules": {"rsvp": {"enabled": true, "max_plus_ones": 2, "deadline": "2026-06-01"}}}`

func TestOpenRSVPPlusOnesBoundary(t *testing.T) {
	f := newFixture(t)
	ev := f.event("plus-ones", rsvpConfig)

	_, err := SubmitOpenRSVP(ctx, f.db, ev.ID, dto.OpenRSVPRequest{Name: "Too Many", PlusOnes: 3}, now)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "2")

	g, err := SubmitOpenRSVP(ctx, f.db, ev.ID, dto.OpenRSVPRequest{
		Name:         "At Limit",
		PlusOnes:     2,
		PlusOneNames: []string{"A", "B"},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusConfirmed, g.Status)
	assert.Equal(t, 2, f.reload(g).PlusOnes)
}

func TestOpenRSVPDeclineAndDeadline(t *testing.T) {
	f := newFixture(t)
	ev := f.event("decline", rsvpConfig)

	no := false
	g, err := SubmitOpenRSVP(ctx, f.db, ev.ID, dto.OpenRSVPRequest{Name: "Absent", Attending: &no, PlusOnes: 1}, now)
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusDeclined, g.Status)
	assert.Zero(t, g.PlusOnes)

	late := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	_, err = SubmitOpenRSVP(ctx, f.db, ev.ID, dto.OpenRSVPRequest{Name: "Late"}, late)
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestSubEventRSVPBecomesPartial(t *testing.T) {
	f := newFixture(t)
	ev := f.event("partial", rsvpConfig)
	mairie := f.subEvent(ev.ID, "mairie", 0, day(11))
	soiree := f.subEvent(ev.ID, "soiree", 1, day(12))
	g := f.guest(ev.ID, "Dana")
	code := f.withCode(g)

	res, err := SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		SubEventRsvps: []dto.SubEventRsvpItem{{SubEventID: mairie.ID, Status: "confirmed", AttendeesCount: 2}},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusConfirmed, res.GuestStatus)

	res, err = SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		SubEventRsvps: []dto.SubEventRsvpItem{{SubEventID: soiree.ID, Status: "declined", AttendeesCount: 1}},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusPartial, res.GuestStatus)

	stored := f.reload(g)
	assert.Equal(t, model.GuestStatusPartial, stored.Status)

	// the stored status always matches the rows
	var all []model.GuestSubEventRsvpModel
	require.NoError(t, f.db.Where("guest_id = ?", g.ID).Find(&all).Error)
	assert.Equal(t, model.AggregateStatus(all, model.GuestStatusPending), stored.Status)

	// flipping back to uniform confirmed
	res, err = SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		SubEventRsvps: []dto.SubEventRsvpItem{{SubEventID: soiree.ID, Status: "confirmed"}},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusConfirmed, res.GuestStatus)
}

func TestSubEventRSVPRoundTrip(t *testing.T) {
	f := newFixture(t)
	ev := f.event("roundtrip", rsvpConfig)
	a := f.subEvent(ev.ID, "a", 0, day(11))
	b := f.subEvent(ev.ID, "b", 1, day(12))
	c := f.subEvent(ev.ID, "c", 2, day(13))
	g := f.guest(ev.ID, "Noam")
	code := f.withCode(g)

	_, err := SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		Dietary:       strPtr("vegetarian"),
		CustomAnswers: map[string]any{"song": "Yalla"},
		SubEventRsvps: []dto.SubEventRsvpItem{
			{SubEventID: a.ID, Status: "confirmed", AttendeesCount: 3},
			{SubEventID: b.ID, Status: "declined", AttendeesCount: 1},
		},
	}, now)
	require.NoError(t, err)

	prog, err := BuildProgram(ctx, f.db, ev.ID, code)
	require.NoError(t, err)
	require.Len(t, prog.SubEvents, 3)

	got := map[uuid.UUID]dto.SubEventProgram{}
	for _, se := range prog.SubEvents {
		got[se.ID] = se
	}
	assert.Equal(t, "confirmed", got[a.ID].RSVPStatus)
	assert.Equal(t, 3, got[a.ID].AttendeesCount)
	assert.Equal(t, "declined", got[b.ID].RSVPStatus)
	assert.Equal(t, 1, got[b.ID].AttendeesCount)
	assert.Equal(t, "pending", got[c.ID].RSVPStatus)
	assert.Equal(t, model.GuestStatusPartial, prog.GlobalRSVPStatus)

	stored := f.reload(g)
	require.NotNil(t, stored.Dietary)
	assert.Equal(t, "vegetarian", *stored.Dietary)
	assert.NotNil(t, stored.RSVPDate)
	assert.JSONEq(t, `{"song":"Yalla"}`, string(stored.CustomAnswers))
}

func TestSubEventRSVPSkipsForeignSubEvents(t *testing.T) {
	f := newFixture(t)
	ev := f.event("mine", rsvpConfig)
	other := f.event("theirs", "")
	mine := f.subEvent(ev.ID, "mine", 0, day(11))
	foreign := f.subEvent(other.ID, "foreign", 0, day(11))
	g := f.guest(ev.ID, "Sarah")
	code := f.withCode(g)

	res, err := SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		SubEventRsvps: []dto.SubEventRsvpItem{
			{SubEventID: mine.ID, Status: "declined"},
			{SubEventID: foreign.ID, Status: "confirmed"},
			{SubEventID: uuid.New(), Status: "confirmed"},
		},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, model.GuestStatusDeclined, res.GuestStatus)

	var n int64
	require.NoError(t, f.db.Model(&model.GuestSubEventRsvpModel{}).Where("sub_event_id = ?", foreign.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubEventRSVPRejectsAfterDeadlineAndUnknownCode(t *testing.T) {
	f := newFixture(t)
	ev := f.event("late", rsvpConfig)
	se := f.subEvent(ev.ID, "only", 0, day(11))
	code := f.withCode(f.guest(ev.ID, "Late"))

	req := dto.SubEventRsvpRequest{SubEventRsvps: []dto.SubEventRsvpItem{{SubEventID: se.ID, Status: "confirmed"}}}
	_, err := SubmitSubEventRSVP(ctx, f.db, ev.ID, code, req, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	_, err = SubmitSubEventRSVP(ctx, f.db, ev.ID, "ZZZZZZ", req, now)
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

package service

import (
	"bytes"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savethedate_backend/internals/features/guests/guests/dto"
	"savethedate_backend/internals/features/guests/guests/model"
)

func TestCreateAndListGuests(t *testing.T) {
	f := newFixture(t)
	ev := f.event("crud", "")
	other := f.event("crud-other", "")
	foreignGroup := f.group(other.ID, "Ailleurs")

	_, err := CreateGuest(ctx, f.db, ev.ID, dto.CreateGuestRequest{Name: "X", InvitationGroupID: &foreignGroup.ID})
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, err.(*fiber.Error).Code)

	grp := f.group(ev.ID, "Amis")
	g, err := CreateGuest(ctx, f.db, ev.ID, dto.CreateGuestRequest{
		Name:              "  Dana Levi ",
		Email:             strPtr(" Dana@Example.com "),
		InvitationGroupID: &grp.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Levi", g.Name)
	assert.Equal(t, "dana@example.com", *g.Email)
	assert.Equal(t, model.GuestStatusPending, g.Status)

	f.guest(ev.ID, "Noam Cohen")
	f.guest(ev.ID, "100% Sarah")

	list, total, err := ListGuests(ctx, f.db, ev.ID, ListFilter{Search: "dana"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, g.ID, list[0].ID)

	list, total, err = ListGuests(ctx, f.db, ev.ID, ListFilter{GroupID: &grp.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	list, total, err = ListGuests(ctx, f.db, ev.ID, ListFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Dana Levi", list[0].Name)

	_, _, err = ListGuests(ctx, f.db, uuid.New(), ListFilter{})
	require.Error(t, err)
}

func TestUpdateGuestRederivesStatus(t *testing.T) {
	f := newFixture(t)
	ev := f.event("update", rsvpConfig)
	se := f.subEvent(ev.ID, "a", 0, day(11))
	g := f.guest(ev.ID, "Dana")
	code := f.withCode(g)

	_, err := SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		SubEventRsvps: []dto.SubEventRsvpItem{{SubEventID: se.ID, Status: "declined"}},
	}, now)
	require.NoError(t, err)

	// a manual status edit cannot contradict the rows
	forced := model.GuestStatusConfirmed
	name := "Dana L."
	out, err := UpdateGuest(ctx, f.db, ev.ID, g.ID, dto.UpdateGuestRequest{Status: &forced, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusDeclined, out.Status)
	assert.Equal(t, "Dana L.", out.Name)
	assert.Equal(t, model.GuestStatusDeclined, f.reload(g).Status)

	// without rows the edit sticks
	free := f.guest(ev.ID, "Free")
	out, err = UpdateGuest(ctx, f.db, ev.ID, free.ID, dto.UpdateGuestRequest{Status: &forced})
	require.NoError(t, err)
	assert.Equal(t, model.GuestStatusConfirmed, out.Status)
}

func TestDeleteGuestRemovesRows(t *testing.T) {
	f := newFixture(t)
	ev := f.event("delete", rsvpConfig)
	se := f.subEvent(ev.ID, "a", 0, day(11))
	g := f.guest(ev.ID, "Gone")
	code := f.withCode(g)
	_, err := SubmitSubEventRSVP(ctx, f.db, ev.ID, code, dto.SubEventRsvpRequest{
		SubEventRsvps: []dto.SubEventRsvpItem{{SubEventID: se.ID, Status: "confirmed"}},
	}, now)
	require.NoError(t, err)

	require.NoError(t, DeleteGuest(ctx, f.db, ev.ID, g.ID))

	var n int64
	require.NoError(t, f.db.Model(&model.GuestSubEventRsvpModel{}).Where("guest_id = ?", g.ID).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, DeleteGuest(ctx, f.db, ev.ID, g.ID), ErrGuestNotFound)
}

func TestGuestQRCode(t *testing.T) {
	t.Setenv("APP_DEEPLINK_BASE", "https://invite.example.com/e/")
	f := newFixture(t)
	ev := f.event("qr-wedding", "")
	g := f.guest(ev.ID, "QR")

	png, code, err := GuestQRCode(ctx, f.db, ev.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, IsValidCode(code))
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Equal(t, code, *f.reload(g).PersonalCode)

	assert.Equal(t, "https://invite.example.com/e/qr-wedding?code=ABC234",
		PersonalCodeLink("https://invite.example.com/e/", "qr-wedding", "ABC234"))
}

package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"savethedate_backend/internals/databases/testdb"
	"savethedate_backend/internals/features/events/events/model"
	helper "savethedate_backend/internals/helpers"
)

func TestFindSeat(t *testing.T) {
	plan := model.SeatingModule{
		Enabled:     true,
		Interactive: true,
		Tables: []model.SeatingTable{
			{Name: "Table 1", Guests: []string{"Dana Levi", "Noam Cohen"}},
			{Name: "Table 2", Guests: []string{"Sarah Cohen"}},
		},
	}

	res := FindSeat(plan, "  COHEN ")
	require.NotNil(t, res)
	assert.True(t, res.Found)
	assert.Equal(t, "Table 1", *res.TableName)
	assert.Equal(t, "Noam Cohen", *res.GuestName)
	assert.Equal(t, "Vous êtes à la Table 1", res.Message)

	res = FindSeat(plan, "sarah")
	assert.Equal(t, "Table 2", *res.TableName)

	res = FindSeat(plan, "Yossi")
	assert.False(t, res.Found)
	assert.Nil(t, res.TableName)
	assert.Contains(t, res.Message, "'Yossi'")

	plan.Interactive = false
	res = FindSeat(plan, "Dana")
	assert.False(t, res.Found)
	assert.Equal(t, staticPlanMessage, res.Message)

	plan.Enabled = false
	assert.Nil(t, FindSeat(plan, "Dana"))
}

func TestSearchSeating(t *testing.T) {
	db := testdb.New(t)
	on := seedEvent(t, db, "seated", model.EventStatusLive, at(2026, 9, 12), func(e *model.EventModel) {
		e.Config = datatypes.JSON(`{"modules":{"seating_plan":{"enabled":true,"interactive":true,"tables":[{"name":"Table 3","guests":["Dana Levi"]}]}}}`)
	})
	off := seedEvent(t, db, "unseated", model.EventStatusLive, at(2026, 9, 12))

	res, err := SearchSeating(bg, db, on.ID, "levi")
	require.NoError(t, err)
	assert.True(t, res.Found)

	_, err = SearchSeating(bg, db, off.ID, "levi")
	assert.Equal(t, fiber.StatusForbidden, helper.ErrorCode(err))

	_, err = SearchSeating(bg, db, on.ID, " ")
	assert.Equal(t, fiber.StatusBadRequest, helper.ErrorCode(err))

	_, err = SearchSeating(bg, db, uuid.New(), "levi")
	assert.Equal(t, fiber.StatusNotFound, helper.ErrorCode(err))
}

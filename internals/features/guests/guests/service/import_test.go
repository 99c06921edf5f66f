package service

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	groupModel "savethedate_backend/internals/features/events/invitation_groups/model"
	"savethedate_backend/internals/features/guests/guests/model"
)

func TestImportGuestsCSV(t *testing.T) {
	f := newFixture(t)
	ev := f.event("import", "")
	existing := f.guest(ev.ID, "Old Name", func(g *model.GuestModel) { g.Email = strPtr("dana@example.com") })

	csv := strings.Join([]string{
		"Name,First_Name,Email,Phone,Group,Plus_Ones",
		"Dana Levi,Dana,DANA@example.com,,Famille,1",
		"Noam Cohen,Noam,noam@example.com,0601020304,famille,0",
		",NoName,x@example.com,,,",
		"Sarah Katz,Sarah,,,Amis,two",
		"",
		"Eli Ben,Eli,,,,",
	}, "\n")

	res, err := ImportGuestsCSV(ctx, f.db, ev.ID, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Updated)
	assert.Len(t, res.Errors, 2)

	updated := f.reload(existing)
	assert.Equal(t, "Dana Levi", updated.Name)
	assert.Equal(t, 1, updated.PlusOnes)
	require.NotNil(t, updated.InvitationGroupID)

	var groups []groupModel.InvitationGroupModel
	require.NoError(t, f.db.Where("event_id = ?", ev.ID).Find(&groups).Error)
	require.Len(t, groups, 1, "group names match case-insensitively")
	assert.Equal(t, "Famille", groups[0].Name)

	var total int64
	require.NoError(t, f.db.Model(&model.GuestModel{}).Where("event_id = ?", ev.ID).Count(&total).Error)
	assert.Equal(t, int64(3), total)
}

func TestImportGuestsCSVRequiresNameColumn(t *testing.T) {
	f := newFixture(t)
	ev := f.event("import-bad", "")

	_, err := ImportGuestsCSV(ctx, f.db, ev.ID, strings.NewReader("email,phone\na@b.c,1\n"))
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, err.(*fiber.Error).Code)

	_, err = ImportGuestsCSV(ctx, f.db, ev.ID, strings.NewReader(""))
	require.Error(t, err)
}

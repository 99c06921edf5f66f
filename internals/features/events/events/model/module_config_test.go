package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParseModulesDefaults(t *testing.T) {
	for _, raw := range []string{"", "{}", "not json", `{"modules": 12}`} {
		m := ParseModules(datatypes.JSON(raw))
		assert.Equal(t, DefaultModules(), m, "raw=%q", raw)
	}

	m := DefaultModules()
	assert.False(t, m.RSVP.Enabled)
	assert.Nil(t, m.RSVP.Deadline)
	assert.True(t, m.Gallery.AllowUpload)
	assert.Equal(t, int64(1), m.Donation.MinAmount)
	assert.Equal(t, "EUR", m.Donation.Currency)
	assert.Equal(t, 5, m.Playlist.MaxSuggestionsPerGuest)
}

func TestParseModulesReadsValues(t *testing.T) {
	raw := `{
		"theme": {"primary": "#fff"},
		"modules": {
			"rsvp": {"enabled": true, "deadline": "2026-06-01T18:00:00Z", "max_plus_ones": 2},
			"gallery": {"enabled": true, "allow_upload": false, "max_photos_per_guest": 10, "moderation": true},
			"guestbook": {"enabled": "yes", "moderation": 1},
			"donation": {"enabled": true, "min_amount": 20, "currency": "usd"},
			"playlist": {"enabled": true, "max_suggestions_per_guest": 3},
			"seating_plan": {"enabled": true, "interactive": true, "tables": [
				{"name": "Table 1", "guests": ["Dana Levi", "Noam Cohen"]},
				"garbage",
				{"name": "Table 2", "guests": ["Sarah", 42]}
			]}
		}
	}`

	m := ParseModules(datatypes.JSON(raw))

	require.NotNil(t, m.RSVP.Deadline)
	assert.True(t, m.RSVP.Enabled)
	assert.Equal(t, time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), *m.RSVP.Deadline)
	assert.Equal(t, 2, m.RSVP.MaxPlusOnes)

	assert.True(t, m.Gallery.Enabled)
	assert.False(t, m.Gallery.AllowUpload)
	assert.Equal(t, 10, m.Gallery.MaxPhotosPerGuest)
	assert.True(t, m.Gallery.Moderation)

	assert.True(t, m.Guestbook.Enabled)
	assert.True(t, m.Guestbook.Moderation)

	assert.Equal(t, int64(20), m.Donation.MinAmount)
	assert.Equal(t, "USD", m.Donation.Currency)
	assert.Equal(t, 3, m.Playlist.MaxSuggestionsPerGuest)

	require.Len(t, m.Seating.Tables, 2)
	assert.Equal(t, []string{"Dana Levi", "Noam Cohen"}, m.Seating.Tables[0].Guests)
	assert.Equal(t, []string{"Sarah", "42"}, m.Seating.Tables[1].Guests)
}

func TestParseModulesWrongTypesDegrade(t *testing.T) {
	raw := `{"modules": {
		"rsvp": {"enabled": "maybe", "deadline": "next tuesday", "max_plus_ones": -4},
		"donation": {"min_amount": "abc", "currency": ""},
		"playlist": {"max_suggestions_per_guest": 0}
	}}`

	m := ParseModules(datatypes.JSON(raw))

	assert.False(t, m.RSVP.Enabled)
	assert.Nil(t, m.RSVP.Deadline)
	assert.Equal(t, 0, m.RSVP.MaxPlusOnes)
	assert.Equal(t, int64(1), m.Donation.MinAmount)
	assert.Equal(t, "EUR", m.Donation.Currency)
	assert.Equal(t, 5, m.Playlist.MaxSuggestionsPerGuest)
}

func TestDeadlineFormats(t *testing.T) {
	dateOnly := asTime("2026-06-01")
	require.NotNil(t, dateOnly)
	assert.Equal(t, time.Date(2026, 6, 1, 23, 59, 59, 0, time.UTC), *dateOnly)

	naive := asTime("2026-06-01T10:30")
	require.NotNil(t, naive)
	assert.Equal(t, time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC), *naive)

	r := RSVPModule{Deadline: naive}
	assert.True(t, r.DeadlinePassed(naive.Add(time.Minute)))
	assert.False(t, r.DeadlinePassed(naive.Add(-time.Minute)))
	assert.False(t, RSVPModule{}.DeadlinePassed(time.Now()))
}

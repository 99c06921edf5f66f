package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rows(statuses ...string) []GuestSubEventRsvpModel {
	out := make([]GuestSubEventRsvpModel, len(statuses))
	for i, s := range statuses {
		out[i] = GuestSubEventRsvpModel{Status: s}
	}
	return out
}

func TestAggregateStatus(t *testing.T) {
	c, d, p := RSVPStatusConfirmed, RSVPStatusDeclined, RSVPStatusPending

	cases := []struct {
		name    string
		rows    []GuestSubEventRsvpModel
		current string
		want    string
	}{
		{"no rows keeps current", nil, GuestStatusConfirmed, GuestStatusConfirmed},
		{"all confirmed", rows(c, c), GuestStatusPending, GuestStatusConfirmed},
		{"all declined", rows(d), GuestStatusConfirmed, GuestStatusDeclined},
		{"mixed", rows(c, d), GuestStatusPending, GuestStatusPartial},
		{"answered plus pending", rows(c, p), GuestStatusPending, GuestStatusPartial},
		{"all pending keeps current", rows(p, p), GuestStatusDeclined, GuestStatusDeclined},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AggregateStatus(tc.rows, tc.current))
		})
	}
}

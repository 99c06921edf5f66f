package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"06 12 34 56 78", "33612345678"},
		{"+33 6 12 34 56 78", "33612345678"},
		{"0033612345678", "33612345678"},
		{"+1 (415) 555-0100", "14155550100"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in, "33")
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := NormalizePhone("12-34", "33")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	// +0... stays as written
	got, err := NormalizePhone("+0612345678", "33")
	require.NoError(t, err)
	assert.Equal(t, "0612345678", got)
}

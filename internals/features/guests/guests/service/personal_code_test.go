package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savethedate_backend/internals/features/guests/guests/model"
)

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		assert.False(t, strings.ContainsAny(code, "0O1IL"), code)
		assert.True(t, IsValidCode(code), code)
	}
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("ABC234"))
	assert.False(t, IsValidCode("abc234"))
	assert.False(t, IsValidCode("ABC23"))
	assert.False(t, IsValidCode("ABC230"))
	assert.False(t, IsValidCode("ABCDEL"))
}

func TestEnsurePersonalCodeIsStable(t *testing.T) {
	f := newFixture(t)
	ev := f.event("stable", "")
	g := f.guest(ev.ID, "Noam Cohen")

	first := f.withCode(g)
	again, err := EnsurePersonalCode(ctx, f.db, f.reload(g))
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, first, *f.reload(g).PersonalCode)
}

func TestEnsurePersonalCodeRetriesOnCollision(t *testing.T) {
	f := newFixture(t)
	a := f.event("wedding-a", "")
	b := f.event("wedding-b", "")

	taken := f.guest(a.ID, "Dana", func(g *model.GuestModel) { g.PersonalCode = strPtr("AAAAAA") })
	fresh := f.guest(b.ID, "Sarah")

	seq := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	calls := 0
	generateCode = func() (string, error) {
		c := seq[calls]
		calls++
		return c, nil
	}
	t.Cleanup(func() { generateCode = GenerateCode })

	code, err := EnsurePersonalCode(ctx, f.db, fresh)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", code)
	assert.Equal(t, 3, calls)

	// the namespace is global: another event's code is never reused
	assert.Equal(t, "AAAAAA", *f.reload(taken).PersonalCode)
}

func TestEnsurePersonalCodeKeepsConcurrentAssignment(t *testing.T) {
	f := newFixture(t)
	ev := f.event("race", "")
	g := f.guest(ev.ID, "Dana")

	// another writer got there first; the in-memory copy is stale
	require.NoError(t, f.db.Model(&model.GuestModel{}).Where("id = ?", g.ID).Update("personal_code", "CCCCCC").Error)
	generateCode = func() (string, error) { return "DDDDDD", nil }
	t.Cleanup(func() { generateCode = GenerateCode })

	code, err := EnsurePersonalCode(ctx, f.db, g)
	require.NoError(t, err)
	assert.Equal(t, "CCCCCC", code)
	assert.Equal(t, "CCCCCC", *f.reload(g).PersonalCode)
}

func TestGenerateMissingCodesUnique(t *testing.T) {
	f := newFixture(t)
	ev := f.event("bulk", "")
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		f.guest(ev.ID, n)
	}
	pre := f.guest(ev.ID, "Has code", func(g *model.GuestModel) { g.PersonalCode = strPtr("ZZZZZZ") })

	generated, failed, err := GenerateMissingCodes(ctx, f.db, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, generated)
	assert.Zero(t, failed)

	var codes []string
	require.NoError(t, f.db.Model(&model.GuestModel{}).Where("personal_code IS NOT NULL").Pluck("personal_code", &codes).Error)
	require.Len(t, codes, 9)
	seen := map[string]bool{}
	for _, c := range codes {
		assert.True(t, IsValidCode(c), c)
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
	assert.Equal(t, "ZZZZZZ", *f.reload(pre).PersonalCode)

	generated, _, err = GenerateMissingCodes(ctx, f.db, ev.ID)
	require.NoError(t, err)
	assert.Zero(t, generated)
}

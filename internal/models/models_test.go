package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSex_Valid(t *testing.T) {
	for _, s := range Sexes {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Sex("").Valid())
	assert.False(t, Sex("homme").Valid(), "match is case-sensitive")
}

func TestResetCode_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &ResetCode{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, c.Expired(now))
	assert.True(t, c.Expired(now.Add(time.Minute)))
	assert.True(t, c.Expired(now.Add(time.Hour)))
}

func TestLoginSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &LoginSession{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Hour)))
}

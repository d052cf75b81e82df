package models

import "time"

// LoginSession records a live login. A session.State whose ID has no row
// here is no longer logged in, whatever its cookie says.
type LoginSession struct {
	ID        string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *LoginSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

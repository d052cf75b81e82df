package models

import "time"

// ResetCode is a pending password reset, keyed by email. Only the bcrypt
// hash of the code is kept. Verified is set once the user typed the code.
type ResetCode struct {
	Email     string
	CodeHash  string
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is no longer usable at now.
func (c *ResetCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

package models

import "time"

// Response is the single survey answer a user may record. Name, Age and Sex
// are copied from the user profile at submission time.
type Response struct {
	ID        string
	UserEmail string
	Name      string
	Age       int
	Sex       Sex
	Variant   string
	Answers   map[string]string
	Comment   string
	CreatedAt time.Time
}

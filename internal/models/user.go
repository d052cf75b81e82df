package models

import "time"

// Sex is the profile value collected at registration.
type Sex string

const (
	SexMale   Sex = "Homme"
	SexFemale Sex = "Femme"
	SexOther  Sex = "Autre"
)

// Sexes lists the accepted values in form order.
var Sexes = []Sex{SexMale, SexFemale, SexOther}

// Valid reports whether s is one of Sexes.
func (s Sex) Valid() bool {
	for _, v := range Sexes {
		if s == v {
			return true
		}
	}
	return false
}

// User is a registered respondent. Email is the unique key.
type User struct {
	Email        string
	DisplayName  string
	Age          int
	Sex          Sex
	PasswordHash string
	CreatedAt    time.Time
}

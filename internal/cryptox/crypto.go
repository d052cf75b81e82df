// Package cryptox holds the hashing primitives of the survey: the legacy
// password digest stored in users.json and the one-time reset codes.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// ResetCodeLength is the number of decimal digits in a password reset code.
const ResetCodeLength = 6

// HashPassword returns the lowercase hex SHA-256 digest of password.
// The format is fixed by the users.json files written by earlier releases.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether password matches the stored digest.
func CheckPassword(hash, password string) bool {
	candidate := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}

// GenerateResetCode returns a zero-padded 6-digit numeric code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", ResetCodeLength, n.Int64()), nil
}

// HashResetCode hashes a reset code for server-side storage.
func HashResetCode(code string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckResetCode compares a submitted code against its stored hash.
func CheckResetCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

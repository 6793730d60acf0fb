package domain

import (
	"strings"
	"time"

	"github.com/aussiebroadwan/roster/pkg/idx"
)

type Account struct {
	ID        idx.ID
	Name      string
	Email     string // as registered; compare with NormalizeEmail
	Secret    string `json:"-"` // stored verbatim
	CreatedAt time.Time
}

// NormalizeEmail is the form emails are compared and indexed by.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// SameEmail reports whether a and b are equal ignoring letter case.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// Matches reports whether email and secret identify this account. The email
// is compared case-insensitively, the secret exactly.
func (a Account) Matches(email, secret string) bool {
	return SameEmail(a.Email, email) && a.Secret == secret
}

package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims represents the JWT claims issued by the identity provider.
// The subject carries the numeric user id as a decimal string.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// UserID parses the numeric user id from the subject claim. Returns false
// when the subject is missing or not a valid integer.
func (c *AccessClaims) UserID() (int64, bool) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

package auth

import (
	"crypto/rand"
	"encoding/base32"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewConfirmationCode returns a random code for the signup mail.
func NewConfirmationCode() (string, error) {
	b := make([]byte, 15)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return codeEncoding.EncodeToString(b), nil
}

func HashCode(code string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(b), err
}

// VerifyCode checks code against the stored hash. An empty hash (no code
// pending) or a code older than ttl never verifies.
func VerifyCode(code, hash string, sentAt *time.Time, ttl time.Duration, now time.Time) bool {
	if hash == "" || code == "" || sentAt == nil {
		return false
	}
	if ttl > 0 && now.Sub(*sentAt) > ttl {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

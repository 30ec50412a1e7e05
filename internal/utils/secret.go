package utils

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const joinCodeLength = 8

func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(b), err
}

func CheckSecret(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

// NewJoinCode returns a short one-time code handed to the candidate.
func NewJoinCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:joinCodeLength])
}

// NormalizeJoinCode accepts codes typed with spaces or in lower case.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

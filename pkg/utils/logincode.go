package utils

import (
	"crypto/rand"
	"strings"
)

const (
	// LoginCodeLength is the fixed length of every login code.
	LoginCodeLength = 6
	// LoginCodeAlphabet is the 36-symbol alphabet codes are drawn from.
	LoginCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateLoginCode returns a random 6-character code from the code alphabet.
func GenerateLoginCode() (string, error) {
	buf := make([]byte, LoginCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = LoginCodeAlphabet[int(b)%len(LoginCodeAlphabet)]
	}
	return string(buf), nil
}

// NormalizeLoginCode uppercases a code and strips surrounding whitespace,
// so user input matches the stored canonical form.
func NormalizeLoginCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateLoginCode checks length and alphabet of a normalized code.
func ValidateLoginCode(code string) error {
	if len(code) != LoginCodeLength {
		return &ValidationError{Field: "login_code", Message: "Login code must be 6 characters"}
	}
	for _, r := range code {
		if !strings.ContainsRune(LoginCodeAlphabet, r) {
			return &ValidationError{Field: "login_code", Message: "Login code can only contain letters and numbers"}
		}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

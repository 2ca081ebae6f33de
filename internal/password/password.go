// Package password implements credential hashing, verification, and the
// account password strength policy.
package password

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of a password. Each call embeds a fresh
// random salt, so two hashes of the same password never match.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored bcrypt hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckStrength validates a password against the account policy: at least
// 8 characters with at least one uppercase letter, one lowercase letter,
// and one digit. It returns the first failing rule's message.
func CheckStrength(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one number"
	}

	return true, "Password is valid"
}

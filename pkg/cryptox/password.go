// Package cryptox provides the one-way credential hasher and the password
// policy applied at signup.
package cryptox

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword reports a password that fails the complexity policy.
var ErrWeakPassword = errors.New("cryptox: password does not meet complexity requirements")

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash. It
// returns a non-nil error on mismatch.
func VerifyPassword(password, encodedHash string) error {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
}

// ValidatePassword enforces the signup password policy: at least 8 characters
// containing an upper-case letter, a lower-case letter, and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}

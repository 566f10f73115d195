package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the cost the admin setup tooling has always used.
const PasswordCost = 12

var ErrEmptyPassword = errors.New("password must not be empty")

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

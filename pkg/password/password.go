// Package password хеширует и проверяет пароли учётных записей (bcrypt).
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength минимальная длина пароля
const MinLength = 8

var (
	// ErrMismatch пароль не совпадает с хешем
	ErrMismatch = errors.New("password: mismatch")

	// ErrTooShort пароль короче MinLength
	ErrTooShort = errors.New("password: too short")
)

// Hash возвращает bcrypt-хеш пароля
func Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", ErrTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Compare сверяет пароль с хешем
func Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	if err != nil {
		return fmt.Errorf("password: compare: %w", err)
	}
	return nil
}

package auth

import (
	"errors"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", goerrors.New("password must not be empty", goerrors.CategoryValidation)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return err
	}
	return nil
}

var dummyHashOnce = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("no-such-principal"), passwordHashCost())
	if err != nil {
		return ""
	}
	return string(h)
})

// CompareDummyHash burns a bcrypt comparison against a throwaway hash at the
// configured cost. Called on lookups for names that do not exist so the
// missing-principal path takes as long as a wrong password.
func CompareDummyHash(password string) {
	if h := dummyHashOnce(); h != "" {
		_ = bcrypt.CompareHashAndPassword([]byte(h), []byte(password))
	}
}

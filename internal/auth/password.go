package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes new credentials and checks supplied ones against what
// is stored.
type Passwords interface {
	Hash(pw string) (string, error)
	Check(stored, supplied string) bool
}

type BcryptPasswords struct{}

func (BcryptPasswords) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func (BcryptPasswords) Check(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// PlainPasswords stores credentials as given. Only for databases seeded
// with plaintext passwords.
type PlainPasswords struct{}

func (PlainPasswords) Hash(pw string) (string, error) { return pw, nil }

func (PlainPasswords) Check(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func PasswordsFor(scheme string) (Passwords, error) {
	switch scheme {
	case "bcrypt", "":
		return BcryptPasswords{}, nil
	case "plain":
		return PlainPasswords{}, nil
	}
	return nil, fmt.Errorf("unknown password scheme %q", scheme)
}

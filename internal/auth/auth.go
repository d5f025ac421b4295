package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadToken = errors.New("invalid token")

// TokenTTL is the lifetime of every access token.
const TokenTTL = 7 * 24 * time.Hour

const minKeyLen = 32

// SigningKey is the HMAC key shared by the issuer and the gate. It is built
// once at startup and never changes afterwards.
type SigningKey struct {
	b []byte
}

// NewSigningKey accepts a base64 encoded secret, falling back to the raw
// bytes when the value is not base64.
func NewSigningKey(secret string) (SigningKey, error) {
	b, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		b = []byte(secret)
	}
	if len(b) < minKeyLen {
		return SigningKey{}, fmt.Errorf("signing key must be at least %d bytes, got %d", minKeyLen, len(b))
	}
	return SigningKey{b: append([]byte(nil), b...)}, nil
}

func (k SigningKey) bytes() []byte { return k.b }

type Issuer struct {
	key SigningKey
	now func() time.Time
}

func NewIssuer(key SigningKey) *Issuer {
	return &Issuer{key: key, now: time.Now}
}

// Issue mints a token for subject: a username for admins, an email for
// doctors and patients. No role claim is embedded.
func (i *Issuer) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("empty subject")
	}
	now := i.now()
	c := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key.bytes())
}

func parse(raw string, key SigningKey, now func() time.Time) (*jwt.RegisteredClaims, error) {
	c := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return key.bytes(), nil
	}, jwt.WithTimeFunc(now), jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid || c.Subject == "" {
		return nil, ErrBadToken
	}
	return c, nil
}

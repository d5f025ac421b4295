package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"clinic-appointments-api/internal/apperr"
)

// Gate verifies tokens and answers identity and ownership questions.
type Gate struct {
	key        SigningKey
	identities Identities
	now        func() time.Time
	log        zerolog.Logger
	rejects    RejectObserver
}

// RejectObserver counts failed validations per role.
type RejectObserver interface {
	ObserveAuthReject(role, reason string)
}

type GateOption func(*Gate)

func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func WithLogger(l zerolog.Logger) GateOption {
	return func(g *Gate) { g.log = l }
}

func WithRejectObserver(o RejectObserver) GateOption {
	return func(g *Gate) { g.rejects = o }
}

func NewGate(key SigningKey, ids Identities, opts ...GateOption) *Gate {
	g := &Gate{key: key, identities: ids, now: time.Now, log: zerolog.Nop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Validate reports whether token is well formed, unexpired and names a
// subject known to role's store. It never returns an error; every failure
// is false.
func (g *Gate) Validate(ctx context.Context, token string, role Role) bool {
	c, err := parse(token, g.key, g.now)
	if err != nil {
		g.reject(role, "token")
		return false
	}
	if _, err := g.identities.Lookup(ctx, role, c.Subject); err != nil {
		if !errors.Is(err, ErrNoIdentity) {
			g.log.Error().Err(err).Str("role", string(role)).Msg("identity lookup failed")
		}
		g.reject(role, "identity")
		return false
	}
	return true
}

// ExtractSubject decodes a token the caller already trusts. Signature and
// expiry are still checked.
func (g *Gate) ExtractSubject(token string) (string, error) {
	c, err := parse(token, g.key, g.now)
	if err != nil {
		return "", apperr.Unauthorized("invalid or expired token")
	}
	return c.Subject, nil
}

// ResolveOwnerID maps token to the primary id of its role-scoped identity.
// A valid token whose subject has since been deleted yields NotFound.
func (g *Gate) ResolveOwnerID(ctx context.Context, token string, role Role) (int64, error) {
	sub, err := g.ExtractSubject(token)
	if err != nil {
		return 0, err
	}
	id, err := g.identities.Lookup(ctx, role, sub)
	if errors.Is(err, ErrNoIdentity) {
		return 0, apperr.NotFound(string(role) + " not found")
	}
	if err != nil {
		return 0, apperr.Internal("identity lookup failed", err)
	}
	return id.ID, nil
}

func (g *Gate) reject(role Role, reason string) {
	if g.rejects != nil {
		g.rejects.ObserveAuthReject(string(role), reason)
	}
}

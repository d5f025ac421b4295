package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(v string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(v))); r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", v)
}

// ErrNoIdentity is returned by identity stores when the subject is unknown.
var ErrNoIdentity = errors.New("identity not found")

type Identity struct {
	ID      int64
	Subject string
	Role    Role
}

// IdentityStore finds one role's identities by token subject.
type IdentityStore interface {
	FindBySubject(ctx context.Context, subject string) (Identity, error)
}

type IdentityStoreFunc func(ctx context.Context, subject string) (Identity, error)

func (f IdentityStoreFunc) FindBySubject(ctx context.Context, subject string) (Identity, error) {
	return f(ctx, subject)
}

// Identities decides what a subject is allowed to act as. Tokens carry no
// role, so the answer comes from whoever implements this.
type Identities interface {
	Lookup(ctx context.Context, role Role, subject string) (Identity, error)
}

// Membership infers the role from which store contains the subject. A
// subject present in two stores passes for both roles; nothing here can
// tell those apart.
type Membership map[Role]IdentityStore

func (m Membership) Lookup(ctx context.Context, role Role, subject string) (Identity, error) {
	s, ok := m[role]
	if !ok || s == nil {
		return Identity{}, ErrNoIdentity
	}
	id, err := s.FindBySubject(ctx, subject)
	if err != nil {
		return Identity{}, err
	}
	id.Role = role
	return id, nil
}

package store

import (
	"context"
	"errors"

	"clinic-appointments-api/internal/auth"
)

// Identities exposes the three account tables as the role stores the
// authorization gate looks subjects up in.
func (s *Store) Identities() auth.Membership {
	return auth.Membership{
		auth.RoleAdmin: auth.IdentityStoreFunc(func(ctx context.Context, sub string) (auth.Identity, error) {
			a, err := s.AdminByUsername(ctx, sub)
			if err != nil {
				return auth.Identity{}, identityErr(err)
			}
			return auth.Identity{ID: a.ID, Subject: a.Username}, nil
		}),
		auth.RoleDoctor: auth.IdentityStoreFunc(func(ctx context.Context, sub string) (auth.Identity, error) {
			d, err := s.DoctorByEmail(ctx, sub)
			if err != nil {
				return auth.Identity{}, identityErr(err)
			}
			return auth.Identity{ID: d.ID, Subject: d.Email}, nil
		}),
		auth.RolePatient: auth.IdentityStoreFunc(func(ctx context.Context, sub string) (auth.Identity, error) {
			p, err := s.PatientByEmail(ctx, sub)
			if err != nil {
				return auth.Identity{}, identityErr(err)
			}
			return auth.Identity{ID: p.ID, Subject: p.Email}, nil
		}),
	}
}

func identityErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return auth.ErrNoIdentity
	}
	return err
}

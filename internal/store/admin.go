package store

import (
	"context"

	"clinic-appointments-api/internal/model"
)

func (s *Store) CreateAdmin(ctx context.Context, a *model.Admin) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO admins (username, password) VALUES ($1,$2) RETURNING id`,
		a.Username, a.Password,
	).Scan(&a.ID)
	if code, _ := pgCode(err); code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.Password)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

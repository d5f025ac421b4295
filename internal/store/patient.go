package store

import (
	"context"

	"clinic-appointments-api/internal/model"
)

func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO patients (name, email, phone, password, address)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		p.Name, p.Email, p.Phone, p.Password, p.Address,
	).Scan(&p.ID)
	if code, _ := pgCode(err); code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (s *Store) PatientExists(ctx context.Context, email, phone string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patients WHERE lower(email) = lower($1) OR phone = $2)`,
		email, phone,
	).Scan(&ok)
	return ok, err
}

func (s *Store) Patient(ctx context.Context, id int64) (*model.Patient, error) {
	return s.onePatient(ctx, `WHERE id = $1`, id)
}

func (s *Store) PatientByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return s.onePatient(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (s *Store) onePatient(ctx context.Context, where string, arg any) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, phone, password, address FROM patients `+where, arg,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Password, &p.Address)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

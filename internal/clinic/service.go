// Package clinic covers accounts and the doctor directory: logins,
// patient signup and admin management of doctors.
package clinic

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"clinic-appointments-api/internal/apperr"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

const minPasswordLen = 8

// Directory is the slice of the record store behind accounts and doctors.
type Directory interface {
	AdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	DoctorByEmail(ctx context.Context, email string) (*model.Doctor, error)
	PatientByEmail(ctx context.Context, email string) (*model.Patient, error)

	PatientExists(ctx context.Context, email, phone string) (bool, error)
	CreatePatient(ctx context.Context, p *model.Patient) error
	Patient(ctx context.Context, id int64) (*model.Patient, error)

	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	FindDoctors(ctx context.Context, name, specialty string) ([]model.Doctor, error)
	CreateDoctor(ctx context.Context, d *model.Doctor) error
	UpdateDoctor(ctx context.Context, d *model.Doctor) error
	DeleteDoctor(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Invalidator drops cached copies of a doctor.
type Invalidator interface {
	Invalidate(ctx context.Context, id int64)
}

type DoctorFilter struct {
	Name      string
	Specialty string
	// Meridiem keeps doctors with at least one slot ending in AM or PM.
	Meridiem string
}

type Service struct {
	dir       Directory
	issuer    TokenIssuer
	passwords auth.Passwords
	cache     Invalidator
	log       zerolog.Logger
}

type Option func(*Service)

func WithInvalidator(c Invalidator) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func New(dir Directory, issuer TokenIssuer, pw auth.Passwords, opts ...Option) *Service {
	if pw == nil {
		pw = auth.BcryptPasswords{}
	}
	s := &Service{dir: dir, issuer: issuer, passwords: pw, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// logins

func (s *Service) AdminLogin(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperr.Invalid("username and password required")
	}
	a, err := s.dir.AdminByUsername(ctx, username)
	if err != nil {
		return "", s.loginErr(err)
	}
	return s.grant(a.Password, password, a.Username)
}

func (s *Service) DoctorLogin(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.Invalid("email and password required")
	}
	d, err := s.dir.DoctorByEmail(ctx, email)
	if err != nil {
		return "", s.loginErr(err)
	}
	return s.grant(d.Password, password, d.Email)
}

func (s *Service) PatientLogin(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.Invalid("email and password required")
	}
	p, err := s.dir.PatientByEmail(ctx, email)
	if err != nil {
		return "", s.loginErr(err)
	}
	return s.grant(p.Password, password, p.Email)
}

// an unknown account and a wrong password look the same to the caller
func (s *Service) loginErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Unauthorized("invalid credentials")
	}
	return apperr.Internal("load account", err)
}

func (s *Service) grant(stored, supplied, subject string) (string, error) {
	if !s.passwords.Check(stored, supplied) {
		return "", apperr.Unauthorized("invalid credentials")
	}
	tok, err := s.issuer.Issue(subject)
	if err != nil {
		return "", apperr.Internal("issue token", err)
	}
	return tok, nil
}

// patients

func (s *Service) RegisterPatient(ctx context.Context, p model.Patient) (*model.Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" || p.Email == "" || p.Phone == "" || p.Password == "" {
		return nil, apperr.Invalid("name, email, phone and password required")
	}
	if len(p.Password) < minPasswordLen {
		return nil, apperr.Invalid("password too short")
	}

	exists, err := s.dir.PatientExists(ctx, p.Email, p.Phone)
	if err != nil {
		return nil, apperr.Internal("check patient", err)
	}
	if exists {
		return nil, apperr.Conflict("patient with this email or phone already exists")
	}

	hash, err := s.passwords.Hash(p.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	p.Password = hash

	if err := s.dir.CreatePatient(ctx, &p); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("patient with this email or phone already exists")
		}
		return nil, apperr.Internal("save patient", err)
	}
	s.log.Info().Int64("patient_id", p.ID).Msg("patient registered")

	p.Password = ""
	return &p, nil
}

func (s *Service) Patient(ctx context.Context, id int64) (*model.Patient, error) {
	p, err := s.dir.Patient(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("patient not found")
	}
	if err != nil {
		return nil, apperr.Internal("load patient", err)
	}
	p.Password = ""
	return p, nil
}

// doctors

func (s *Service) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	out, err := s.dir.ListDoctors(ctx)
	if err != nil {
		return nil, apperr.Internal("list doctors", err)
	}
	return public(out), nil
}

func (s *Service) FilterDoctors(ctx context.Context, f DoctorFilter) ([]model.Doctor, error) {
	meridiem := strings.ToUpper(strings.TrimSpace(f.Meridiem))
	if meridiem != "" && meridiem != "AM" && meridiem != "PM" {
		return nil, apperr.Invalid("time must be AM or PM")
	}

	found, err := s.dir.FindDoctors(ctx, strings.TrimSpace(f.Name), strings.TrimSpace(f.Specialty))
	if err != nil {
		return nil, apperr.Internal("find doctors", err)
	}
	if meridiem == "" {
		return public(found), nil
	}

	out := found[:0]
	for _, d := range found {
		for _, slot := range d.AvailableTimes {
			if availability.HasMeridiem(slot, meridiem) {
				out = append(out, d)
				break
			}
		}
	}
	return public(out), nil
}

func (s *Service) AddDoctor(ctx context.Context, d model.Doctor) (*model.Doctor, error) {
	if err := checkDoctor(&d); err != nil {
		return nil, err
	}
	if d.Password == "" {
		return nil, apperr.Invalid("password required")
	}
	hash, err := s.passwords.Hash(d.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	d.Password = hash

	if err := s.dir.CreateDoctor(ctx, &d); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("doctor with this email already exists")
		}
		return nil, apperr.Internal("save doctor", err)
	}
	s.log.Info().Int64("doctor_id", d.ID).Msg("doctor added")

	d.Password = ""
	return &d, nil
}

// UpdateDoctor replaces a doctor's profile and slot universe. An empty
// password leaves the current one in place.
func (s *Service) UpdateDoctor(ctx context.Context, d model.Doctor) (*model.Doctor, error) {
	if d.ID <= 0 {
		return nil, apperr.Invalid("doctor id required")
	}
	if err := checkDoctor(&d); err != nil {
		return nil, err
	}
	if d.Password != "" {
		hash, err := s.passwords.Hash(d.Password)
		if err != nil {
			return nil, apperr.Internal("hash password", err)
		}
		d.Password = hash
	}

	err := s.dir.UpdateDoctor(ctx, &d)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound("doctor not found")
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperr.Conflict("doctor with this email already exists")
	case err != nil:
		return nil, apperr.Internal("update doctor", err)
	}
	s.invalidate(ctx, d.ID)

	d.Password = ""
	return &d, nil
}

// DeleteDoctor removes the doctor along with their appointments.
func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	err := s.dir.DeleteDoctor(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("doctor not found")
	}
	if err != nil {
		return apperr.Internal("delete doctor", err)
	}
	s.invalidate(ctx, id)
	s.log.Info().Int64("doctor_id", id).Msg("doctor deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

func checkDoctor(d *model.Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Specialty = strings.TrimSpace(d.Specialty)
	d.Email = strings.TrimSpace(d.Email)
	if d.Name == "" || d.Specialty == "" || d.Email == "" {
		return apperr.Invalid("name, specialty and email required")
	}
	// stored in the form LabelOf produces, e.g. "09:00am" becomes "9:00AM"
	slots := make([]string, len(d.AvailableTimes))
	for i, slot := range d.AvailableTimes {
		c, ok := availability.Canonical(slot)
		if !ok {
			return apperr.Invalid("invalid time slot " + slot)
		}
		slots[i] = c
	}
	d.AvailableTimes = slots
	return nil
}

func public(ds []model.Doctor) []model.Doctor {
	out := make([]model.Doctor, len(ds))
	for i, d := range ds {
		d.Password = ""
		out[i] = d
	}
	return out
}

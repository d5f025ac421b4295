// Package memory is an in-process record store with the same semantics as
// the PostgreSQL store. It backs STORE=memory runs and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

type Store struct {
	mu sync.Mutex

	seq           int64
	admins        map[int64]model.Admin
	doctors       map[int64]model.Doctor
	patients      map[int64]model.Patient
	appointments  map[int64]model.Appointment
	prescriptions map[int64]model.Prescription

	now func() time.Time
}

func New() *Store {
	return &Store{
		admins:        map[int64]model.Admin{},
		doctors:       map[int64]model.Doctor{},
		patients:      map[int64]model.Patient{},
		appointments:  map[int64]model.Appointment{},
		prescriptions: map[int64]model.Prescription{},
		now:           time.Now,
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func fold(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

// admins

func (s *Store) CreateAdmin(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.admins {
		if x.Username == a.Username {
			return store.ErrDuplicate
		}
	}
	a.ID = s.next()
	s.admins[a.ID] = *a
	return nil
}

func (s *Store) AdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.admins {
		if x.Username == username {
			return &x, nil
		}
	}
	return nil, store.ErrNotFound
}

// doctors

func (s *Store) CreateDoctor(_ context.Context, d *model.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctorEmailTaken(d.Email, 0) {
		return store.ErrDuplicate
	}
	d.ID = s.next()
	s.doctors[d.ID] = cloneDoctor(*d)
	return nil
}

func (s *Store) UpdateDoctor(_ context.Context, d *model.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.doctors[d.ID]
	if !ok {
		return store.ErrNotFound
	}
	if s.doctorEmailTaken(d.Email, d.ID) {
		return store.ErrDuplicate
	}
	next := cloneDoctor(*d)
	if next.Password == "" {
		next.Password = cur.Password
	}
	s.doctors[d.ID] = next
	return nil
}

func (s *Store) DeleteDoctor(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[id]; !ok {
		return store.ErrNotFound
	}
	for aid, a := range s.appointments {
		if a.DoctorID != id {
			continue
		}
		for pid, p := range s.prescriptions {
			if p.AppointmentID == aid {
				delete(s.prescriptions, pid)
			}
		}
		delete(s.appointments, aid)
	}
	delete(s.doctors, id)
	return nil
}

func (s *Store) Doctor(_ context.Context, id int64) (*model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d = cloneDoctor(d)
	return &d, nil
}

func (s *Store) DoctorByEmail(_ context.Context, email string) (*model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.doctors {
		if fold(d.Email) == fold(email) {
			d = cloneDoctor(d)
			return &d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DoctorExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.doctors[id]
	return ok, nil
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.FindDoctors(ctx, "", "")
}

func (s *Store) FindDoctors(_ context.Context, name, specialty string) ([]model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Doctor
	for _, d := range s.doctors {
		if name != "" && !strings.Contains(fold(d.Name), fold(name)) {
			continue
		}
		if specialty != "" && fold(d.Specialty) != fold(specialty) {
			continue
		}
		out = append(out, cloneDoctor(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) doctorEmailTaken(email string, except int64) bool {
	for id, d := range s.doctors {
		if id != except && fold(d.Email) == fold(email) {
			return true
		}
	}
	return false
}

func cloneDoctor(d model.Doctor) model.Doctor {
	d.AvailableTimes = append([]string{}, d.AvailableTimes...)
	return d
}

// patients

func (s *Store) CreatePatient(_ context.Context, p *model.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patientTaken(p.Email, p.Phone) {
		return store.ErrDuplicate
	}
	p.ID = s.next()
	s.patients[p.ID] = *p
	return nil
}

func (s *Store) PatientExists(_ context.Context, email, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patientTaken(email, phone), nil
}

func (s *Store) Patient(_ context.Context, id int64) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) PatientByEmail(_ context.Context, email string) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if fold(p.Email) == fold(email) {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) patientTaken(email, phone string) bool {
	for _, p := range s.patients {
		if fold(p.Email) == fold(email) || p.Phone == phone {
			return true
		}
	}
	return false
}

// Identities mirrors store.Store.Identities over the in-memory tables.
func (s *Store) Identities() auth.Membership {
	return auth.Membership{
		auth.RoleAdmin: auth.IdentityStoreFunc(func(ctx context.Context, sub string) (auth.Identity, error) {
			a, err := s.AdminByUsername(ctx, sub)
			if err != nil {
				return auth.Identity{}, auth.ErrNoIdentity
			}
			return auth.Identity{ID: a.ID, Subject: a.Username}, nil
		}),
		auth.RoleDoctor: auth.IdentityStoreFunc(func(ctx context.Context, sub string) (auth.Identity, error) {
			d, err := s.DoctorByEmail(ctx, sub)
			if err != nil {
				return auth.Identity{}, auth.ErrNoIdentity
			}
			return auth.Identity{ID: d.ID, Subject: d.Email}, nil
		}),
		auth.RolePatient: auth.IdentityStoreFunc(func(ctx context.Context, sub string) (auth.Identity, error) {
			p, err := s.PatientByEmail(ctx, sub)
			if err != nil {
				return auth.Identity{}, auth.ErrNoIdentity
			}
			return auth.Identity{ID: p.ID, Subject: p.Email}, nil
		}),
	}
}

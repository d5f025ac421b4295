package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

// CreateAppointment checks and inserts under the store mutex, the in-memory
// counterpart of the advisory-locked transaction.
func (s *Store) CreateAppointment(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[a.DoctorID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := s.patients[a.PatientID]; !ok {
		return store.ErrNotFound
	}
	if a.Status == model.StatusScheduled && s.slotTaken(a.DoctorID, a.AppointmentTime, 0) {
		return store.ErrSlotTaken
	}
	a.ID = s.next()
	s.appointments[a.ID] = *a
	return nil
}

func (s *Store) Appointment(_ context.Context, id int64) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a = s.hydrate(a)
	return &a, nil
}

func (s *Store) RescheduleAppointment(_ context.Context, id int64, at time.Time, st model.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return store.ErrNotFound
	}
	if st == model.StatusScheduled && s.slotTaken(a.DoctorID, at, id) {
		return store.ErrSlotTaken
	}
	a.AppointmentTime = at
	a.Status = st
	s.appointments[id] = a
	return nil
}

func (s *Store) SetAppointmentStatus(_ context.Context, id int64, st model.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return false, nil
	}
	if st == model.StatusScheduled && a.Status != st && s.slotTaken(a.DoctorID, a.AppointmentTime, id) {
		return false, store.ErrSlotTaken
	}
	a.Status = st
	s.appointments[id] = a
	return true, nil
}

func (s *Store) DeleteAppointment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return store.ErrNotFound
	}
	for pid, p := range s.prescriptions {
		if p.AppointmentID == id {
			delete(s.prescriptions, pid)
		}
	}
	delete(s.appointments, id)
	return nil
}

func (s *Store) DoctorAppointments(_ context.Context, doctorID int64, from, to time.Time, patientName string) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(a model.Appointment) bool {
		if a.DoctorID != doctorID || a.AppointmentTime.Before(from) || !a.AppointmentTime.Before(to) {
			return false
		}
		return patientName == "" || strings.Contains(fold(a.PatientName), fold(patientName))
	}), nil
}

func (s *Store) PatientAppointments(_ context.Context, patientID int64, status *model.Status, doctorName string) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(a model.Appointment) bool {
		if a.PatientID != patientID {
			return false
		}
		if status != nil && a.Status != *status {
			return false
		}
		return doctorName == "" || strings.Contains(fold(a.DoctorName), fold(doctorName))
	}), nil
}

// collect hydrates before filtering so name filters see joined fields.
func (s *Store) collect(keep func(model.Appointment) bool) []model.Appointment {
	var out []model.Appointment
	for _, a := range s.appointments {
		a = s.hydrate(a)
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentTime.Equal(out[j].AppointmentTime) {
			return out[i].AppointmentTime.Before(out[j].AppointmentTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) hydrate(a model.Appointment) model.Appointment {
	if d, ok := s.doctors[a.DoctorID]; ok {
		a.DoctorName = d.Name
	}
	if p, ok := s.patients[a.PatientID]; ok {
		a.PatientName = p.Name
		a.PatientEmail = p.Email
	}
	return a
}

func (s *Store) slotTaken(doctorID int64, at time.Time, except int64) bool {
	for id, a := range s.appointments {
		if id != except && a.DoctorID == doctorID && a.Status == model.StatusScheduled && a.AppointmentTime.Equal(at) {
			return true
		}
	}
	return false
}

// prescriptions

func (s *Store) CreatePrescription(_ context.Context, p *model.Prescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[p.AppointmentID]; !ok {
		return store.ErrNotFound
	}
	for _, x := range s.prescriptions {
		if x.AppointmentID == p.AppointmentID {
			return store.ErrDuplicate
		}
	}
	p.ID = s.next()
	p.CreatedAt = s.now().UTC()
	s.prescriptions[p.ID] = *p
	return nil
}

func (s *Store) PrescriptionsByAppointment(_ context.Context, appointmentID int64) ([]model.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Prescription
	for _, p := range s.prescriptions {
		if p.AppointmentID == appointmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

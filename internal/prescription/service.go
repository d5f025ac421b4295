// Package prescription records what a doctor prescribed for an
// appointment. Saving one completes the appointment.
package prescription

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"clinic-appointments-api/internal/apperr"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

type Records interface {
	Appointment(ctx context.Context, id int64) (*model.Appointment, error)
	CreatePrescription(ctx context.Context, p *model.Prescription) error
	PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error)
}

// StatusChanger is the administrative status transition of the
// appointment lifecycle.
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id int64, st model.Status) error
}

type Service struct {
	records Records
	status  StatusChanger
	log     zerolog.Logger
}

func New(records Records, status StatusChanger, log zerolog.Logger) *Service {
	return &Service{records: records, status: status, log: log}
}

// Save stores the prescription and marks its appointment Completed. An
// appointment carries at most one prescription.
func (s *Service) Save(ctx context.Context, p model.Prescription) (*model.Prescription, error) {
	p.Medication = strings.TrimSpace(p.Medication)
	p.Dosage = strings.TrimSpace(p.Dosage)
	if p.AppointmentID <= 0 || p.Medication == "" || p.Dosage == "" {
		return nil, apperr.Invalid("appointment id, medication and dosage required")
	}

	a, err := s.records.Appointment(ctx, p.AppointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Internal("load appointment", err)
	}
	if strings.TrimSpace(p.PatientName) == "" {
		p.PatientName = a.PatientName
	}

	err = s.records.CreatePrescription(ctx, &p)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperr.Conflict("appointment already has a prescription")
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound("appointment not found")
	case err != nil:
		return nil, apperr.Internal("save prescription", err)
	}

	if err := s.status.ChangeStatus(ctx, p.AppointmentID, model.StatusCompleted); err != nil {
		return nil, err
	}
	s.log.Info().Int64("appointment_id", p.AppointmentID).Msg("prescription saved")
	return &p, nil
}

func (s *Service) ForAppointment(ctx context.Context, appointmentID int64) (*model.Prescription, error) {
	out, err := s.records.PrescriptionsByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, apperr.Internal("load prescription", err)
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("prescription not found")
	}
	return &out[0], nil
}

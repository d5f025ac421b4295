package store

import (
	"context"

	"clinic-appointments-api/internal/model"
)

func (s *Store) CreatePrescription(ctx context.Context, p *model.Prescription) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO prescriptions (appointment_id, patient_name, medication, dosage, doctor_notes)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
		p.AppointmentID, p.PatientName, p.Medication, p.Dosage, p.DoctorNotes,
	).Scan(&p.ID, &p.CreatedAt)
	switch code, _ := pgCode(err); code {
	case pgUniqueViolation:
		return ErrDuplicate
	case pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}

func (s *Store) PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, appointment_id, patient_name, medication, dosage, doctor_notes, created_at
		 FROM prescriptions WHERE appointment_id = $1 ORDER BY id`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Prescription
	for rows.Next() {
		var p model.Prescription
		if err := rows.Scan(&p.ID, &p.AppointmentID, &p.PatientName, &p.Medication,
			&p.Dosage, &p.DoctorNotes, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

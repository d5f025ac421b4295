package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"clinic-appointments-api/internal/model"
)

const appointmentCols = `a.id, a.doctor_id, a.patient_id, a.appointment_time, a.status,
		d.name, p.name, p.email`

const appointmentFrom = ` FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 JOIN patients p ON p.id = a.patient_id`

// CreateAppointment inserts a scheduled appointment. The slot is re-checked
// under a per-doctor transaction lock; the partial unique index catches
// anything that still slips through.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, a.DoctorID); err != nil {
		return err
	}

	var taken bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND appointment_time = $2 AND status = 0)`,
		a.DoctorID, a.AppointmentTime,
	).Scan(&taken)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (doctor_id, patient_id, appointment_time, status)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		a.DoctorID, a.PatientID, a.AppointmentTime, int(a.Status),
	).Scan(&a.ID)
	if err != nil {
		return appointmentWriteErr(err)
	}

	return tx.Commit(ctx)
}

func appointmentWriteErr(err error) error {
	switch code, constraint := pgCode(err); {
	case code == pgUniqueViolation && constraint == slotIndex:
		return ErrSlotTaken
	case code == pgUniqueViolation:
		return ErrDuplicate
	case code == pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}

func (s *Store) Appointment(ctx context.Context, id int64) (*model.Appointment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+appointmentCols+appointmentFrom+` WHERE a.id = $1`, id)
	if err != nil {
		return nil, err
	}
	out, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// RescheduleAppointment overwrites time and status.
func (s *Store) RescheduleAppointment(ctx context.Context, id int64, at time.Time, st model.Status) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE appointments SET appointment_time = $1, status = $2, updated_at = NOW()
		 WHERE id = $3`,
		at, int(st), id,
	)
	if err != nil {
		return appointmentWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAppointmentStatus reports whether a row was touched.
func (s *Store) SetAppointmentStatus(ctx context.Context, id int64, st model.Status) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`,
		int(st), id,
	)
	if err != nil {
		return false, appointmentWriteErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAppointment removes the row; cancellation keeps no tombstone.
func (s *Store) DeleteAppointment(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DoctorAppointments lists appointments in [from, to), optionally only
// those whose patient name contains patientName, case-insensitively.
func (s *Store) DoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time, patientName string) ([]model.Appointment, error) {
	q := `SELECT ` + appointmentCols + appointmentFrom + `
		 WHERE a.doctor_id = $1
		   AND a.appointment_time >= $2 AND a.appointment_time < $3`
	args := []any{doctorID, from, to}

	if patientName != "" {
		q += ` AND p.name ILIKE '%' || $4 || '%'`
		args = append(args, escapeLike(patientName))
	}
	q += ` ORDER BY a.appointment_time, a.id`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

// PatientAppointments covers the four patient filter shapes: none, status,
// doctor name, or both.
func (s *Store) PatientAppointments(ctx context.Context, patientID int64, status *model.Status, doctorName string) ([]model.Appointment, error) {
	q := `SELECT ` + appointmentCols + appointmentFrom + `
		 WHERE a.patient_id = $1`
	args := []any{patientID}

	if status != nil {
		args = append(args, int(*status))
		q += ` AND a.status = $` + itoa(len(args))
	}
	if doctorName != "" {
		args = append(args, escapeLike(doctorName))
		q += ` AND d.name ILIKE '%' || $` + itoa(len(args)) + ` || '%'`
	}
	q += ` ORDER BY a.appointment_time, a.id`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var st int
		if err := rows.Scan(
			&a.ID, &a.DoctorID, &a.PatientID, &a.AppointmentTime, &st,
			&a.DoctorName, &a.PatientName, &a.PatientEmail,
		); err != nil {
			return nil, err
		}
		a.Status = model.Status(st)
		out = append(out, a)
	}
	return out, rows.Err()
}

package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"clinic-appointments-api/internal/model"
)

const doctorCols = `id, name, specialty, email, phone, password, available_times`

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO doctors (name, specialty, email, phone, password, available_times)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		d.Name, d.Specialty, d.Email, d.Phone, d.Password, slots(d.AvailableTimes),
	).Scan(&d.ID)
	if code, _ := pgCode(err); code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

// UpdateDoctor replaces the profile and slot universe. An empty password
// keeps the stored one.
func (s *Store) UpdateDoctor(ctx context.Context, d *model.Doctor) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE doctors
		 SET name=$1, specialty=$2, email=$3, phone=$4,
		     password=COALESCE(NULLIF($5, ''), password),
		     available_times=$6, updated_at=NOW()
		 WHERE id=$7`,
		d.Name, d.Specialty, d.Email, d.Phone, d.Password, slots(d.AvailableTimes), d.ID,
	)
	if code, _ := pgCode(err); code == pgUniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDoctor removes the doctor together with their appointments and the
// prescriptions attached to them.
func (s *Store) DeleteDoctor(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM prescriptions WHERE appointment_id IN
		   (SELECT id FROM appointments WHERE doctor_id = $1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) Doctor(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.oneDoctor(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id)
}

func (s *Store) DoctorByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	return s.oneDoctor(ctx, `SELECT `+doctorCols+` FROM doctors WHERE lower(email) = lower($1)`, email)
}

func (s *Store) DoctorExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM doctors WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.db.Query(ctx, `SELECT `+doctorCols+` FROM doctors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return scanDoctors(rows)
}

// FindDoctors filters by name substring and exact specialty, both
// case-insensitive. Empty arguments do not filter.
func (s *Store) FindDoctors(ctx context.Context, name, specialty string) ([]model.Doctor, error) {
	q := `SELECT ` + doctorCols + ` FROM doctors WHERE TRUE`
	var args []any
	if name != "" {
		args = append(args, escapeLike(name))
		q += ` AND name ILIKE '%' || $` + itoa(len(args)) + ` || '%'`
	}
	if specialty != "" {
		args = append(args, specialty)
		q += ` AND lower(specialty) = lower($` + itoa(len(args)) + `)`
	}
	q += ` ORDER BY name, id`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanDoctors(rows)
}

func (s *Store) oneDoctor(ctx context.Context, q string, arg any) (*model.Doctor, error) {
	d := &model.Doctor{}
	err := s.db.QueryRow(ctx, q, arg).Scan(
		&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.Password, &d.AvailableTimes)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func scanDoctors(rows pgx.Rows) ([]model.Doctor, error) {
	defer rows.Close()

	var out []model.Doctor
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Email, &d.Phone, &d.Password, &d.AvailableTimes); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// text[] columns are NOT NULL; a nil slice would be sent as NULL
func slots(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

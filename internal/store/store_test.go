package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *store.Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, store.New(mock)
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

var apptCols = []string{"id", "doctor_id", "patient_id", "appointment_time", "status", "doctor_name", "patient_name", "patient_email"}

func TestCreateAppointment_LocksAndInserts(t *testing.T) {
	mock, st := newMock(t)
	at := time.Date(2031, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), at).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO appointments").WithArgs(int64(7), int64(3), at, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectCommit()

	a := &model.Appointment{DoctorID: 7, PatientID: 3, AppointmentTime: at}
	if err := st.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID != 42 {
		t.Fatalf("expected id 42, got %d", a.ID)
	}
	expectationsMet(t, mock)
}

func TestCreateAppointment_SlotAlreadyScheduled(t *testing.T) {
	mock, st := newMock(t)
	at := time.Date(2031, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), at).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := st.CreateAppointment(context.Background(), &model.Appointment{DoctorID: 7, PatientID: 3, AppointmentTime: at})
	if !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreateAppointment_UniqueIndexBackstop(t *testing.T) {
	mock, st := newMock(t)
	at := time.Date(2031, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), at).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO appointments").WithArgs(int64(7), int64(3), at, 0).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_one_scheduled_per_slot"})
	mock.ExpectRollback()

	err := st.CreateAppointment(context.Background(), &model.Appointment{DoctorID: 7, PatientID: 3, AppointmentTime: at})
	if !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreateAppointment_UnknownPatient(t *testing.T) {
	mock, st := newMock(t)
	at := time.Date(2031, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(7), at).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO appointments").WithArgs(int64(7), int64(99), at, 0).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "appointments_patient_id_fkey"})
	mock.ExpectRollback()

	err := st.CreateAppointment(context.Background(), &model.Appointment{DoctorID: 7, PatientID: 99, AppointmentTime: at})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestRescheduleAppointment(t *testing.T) {
	at := time.Date(2031, 5, 2, 14, 0, 0, 0, time.UTC)

	t.Run("missing row", func(t *testing.T) {
		mock, st := newMock(t)
		mock.ExpectExec("UPDATE appointments SET appointment_time").
			WithArgs(at, 0, int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := st.RescheduleAppointment(context.Background(), 5, at, model.StatusScheduled)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		expectationsMet(t, mock)
	})

	t.Run("collides with scheduled slot", func(t *testing.T) {
		mock, st := newMock(t)
		mock.ExpectExec("UPDATE appointments SET appointment_time").
			WithArgs(at, 0, int64(5)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_one_scheduled_per_slot"})

		err := st.RescheduleAppointment(context.Background(), 5, at, model.StatusScheduled)
		if !errors.Is(err, store.ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken, got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestSetAppointmentStatus_ReportsTouchedRows(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs(1, int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := st.SetAppointmentStatus(context.Background(), 999, model.StatusCompleted)
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
	expectationsMet(t, mock)
}

func TestDoctorAppointments_FiltersAndScans(t *testing.T) {
	mock, st := newMock(t)
	from := time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	at := from.Add(9 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`p.name ILIKE '%' || $4 || '%'`)).
		WithArgs(int64(2), from, to, `50\%`).
		WillReturnRows(pgxmock.NewRows(apptCols).
			AddRow(int64(11), int64(2), int64(3), at, 0, "Dr. Lee", "Ann 50%", "ann@example.com"))

	got, err := st.DoctorAppointments(context.Background(), 2, from, to, "50%")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(got))
	}
	a := got[0]
	if a.ID != 11 || a.DoctorName != "Dr. Lee" || a.PatientEmail != "ann@example.com" || !a.AppointmentTime.Equal(at) {
		t.Fatalf("unexpected row %+v", a)
	}
	if a.Status != model.StatusScheduled {
		t.Fatalf("expected scheduled, got %v", a.Status)
	}
	expectationsMet(t, mock)
}

func TestPatientAppointments_QueryShapes(t *testing.T) {
	completed := model.StatusCompleted

	cases := []struct {
		name   string
		status *model.Status
		doctor string
		want   string
		args   []any
	}{
		{"none", nil, "", `WHERE a.patient_id = $1`, []any{int64(4)}},
		{"status", &completed, "", `a.status = $2`, []any{int64(4), 1}},
		{"doctor", nil, "lee", `d.name ILIKE '%' || $2 || '%'`, []any{int64(4), "lee"}},
		{"both", &completed, "lee", `d.name ILIKE '%' || $3 || '%'`, []any{int64(4), 1, "lee"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock, st := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta(tc.want)).
				WithArgs(tc.args...).
				WillReturnRows(pgxmock.NewRows(apptCols))

			got, err := st.PatientAppointments(context.Background(), 4, tc.status, tc.doctor)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected no rows, got %d", len(got))
			}
			expectationsMet(t, mock)
		})
	}
}

func TestCreateDoctor_DuplicateEmail(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectQuery("INSERT INTO doctors").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "doctors_email_key"})

	err := st.CreateDoctor(context.Background(), &model.Doctor{Name: "Dr. Lee", Email: "lee@example.com"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDoctor_ScansSlotUniverse(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectQuery("FROM doctors WHERE id").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialty", "email", "phone", "password", "available_times"}).
			AddRow(int64(1), "Dr. Lee", "Cardiology", "lee@example.com", "555", "hash", []string{"9:00AM", "10:00AM"}))

	d, err := st.Doctor(context.Background(), 1)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(d.AvailableTimes) != 2 || d.AvailableTimes[1] != "10:00AM" {
		t.Fatalf("unexpected slots %v", d.AvailableTimes)
	}
	expectationsMet(t, mock)
}

func TestDoctor_Missing(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectQuery("FROM doctors WHERE id").WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialty", "email", "phone", "password", "available_times"}))

	if _, err := st.Doctor(context.Background(), 404); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteDoctor_Cascades(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM prescriptions").WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM appointments").WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM doctors").WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	if err := st.DeleteDoctor(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteDoctor_Missing(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM prescriptions").WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM appointments").WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM doctors").WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	if err := st.DeleteDoctor(context.Background(), 9); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreatePrescription_Errors(t *testing.T) {
	cases := []struct {
		name string
		code string
		want error
	}{
		{"second prescription", "23505", store.ErrDuplicate},
		{"unknown appointment", "23503", store.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock, st := newMock(t)
			mock.ExpectQuery("INSERT INTO prescriptions").
				WillReturnError(&pgconn.PgError{Code: tc.code})

			err := st.CreatePrescription(context.Background(), &model.Prescription{AppointmentID: 1})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			expectationsMet(t, mock)
		})
	}
}

func TestIdentities_MapsMissingSubject(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectQuery("FROM patients WHERE lower").WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "password", "address"}))
	mock.ExpectQuery("FROM admins WHERE username").WithArgs("root").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password"}).AddRow(int64(1), "root", "x"))

	ids := st.Identities()

	_, err := ids.Lookup(context.Background(), auth.RolePatient, "ghost@example.com")
	if !errors.Is(err, auth.ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}

	id, err := ids.Lookup(context.Background(), auth.RoleAdmin, "root")
	if err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
	if id.ID != 1 || id.Role != auth.RoleAdmin {
		t.Fatalf("unexpected identity %+v", id)
	}
	expectationsMet(t, mock)
}

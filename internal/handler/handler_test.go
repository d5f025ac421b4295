package handler_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/appointment"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/clinic"
	"clinic-appointments-api/internal/handler"
	"clinic-appointments-api/internal/logging"
	"clinic-appointments-api/internal/middleware"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/prescription"
	"clinic-appointments-api/internal/store/memory"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func newHandler(t *testing.T) (*handler.Handler, *memory.Store) {
	t.Helper()
	st := memory.New()
	key, err := auth.NewSigningKey(testSecret)
	require.NoError(t, err)

	gate := auth.NewGate(key, st.Identities())
	calc := availability.NewCalculator(st, st, time.UTC, nil)
	lc := appointment.New(st, gate, calc)

	h := handler.New(handler.Deps{
		Clinic:        clinic.New(st, auth.NewIssuer(key), auth.PlainPasswords{}),
		Appointments:  lc,
		Availability:  calc,
		Prescriptions: prescription.New(st, lc, logging.Nop()),
		Gate:          gate,
		Log:           logging.Nop(),
	})
	return h, st
}

func authed(token string) context.Context {
	return middleware.WithToken(context.Background(), token)
}

func tomorrowAt(hour int) time.Time {
	y, m, d := time.Now().UTC().AddDate(0, 0, 1).Date()
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func addDoctor(t *testing.T, h *handler.Handler) *pb.Doctor {
	t.Helper()
	resp, err := h.AddDoctor(context.Background(), &pb.AddDoctorRequest{
		Name: "Dr. Lee", Specialty: "Cardiology", Email: "lee@example.com",
		Password: "docpass", AvailableTimes: []string{"9:00AM", "10:00AM"},
	})
	require.NoError(t, err)
	return resp.Doctor
}

func registerAndLogin(t *testing.T, h *handler.Handler, name, email, phone string) string {
	t.Helper()
	ctx := context.Background()
	_, err := h.RegisterPatient(ctx, &pb.RegisterPatientRequest{Name: name, Email: email, Phone: phone, Password: "patientpw"})
	require.NoError(t, err)
	login, err := h.PatientLogin(ctx, &pb.LoginRequest{Email: email, Password: "patientpw"})
	require.NoError(t, err)
	return login.Token
}

func TestPatientJourney(t *testing.T) {
	h, _ := newHandler(t)
	doc := addDoctor(t, h)
	tok := registerAndLogin(t, h, "Ann Smith", "ann@example.com", "555")
	ctx := authed(tok)

	me, err := h.GetPatient(ctx, &pb.GetPatientRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", me.Patient.Email)

	date := tomorrowAt(0).Format("2006-01-02")
	avail, err := h.GetAvailability(ctx, &pb.GetAvailabilityRequest{Role: "patient", DoctorId: doc.Id, Date: date})
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00AM", "10:00AM"}, avail.AvailableTimes)

	booked, err := h.BookAppointment(ctx, &pb.BookAppointmentRequest{DoctorId: doc.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(9))})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lee", booked.Appointment.DoctorName)
	assert.Equal(t, int32(model.StatusScheduled), booked.Appointment.Status)

	avail, err = h.GetAvailability(ctx, &pb.GetAvailabilityRequest{Role: "patient", DoctorId: doc.Id, Date: date})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00AM"}, avail.AvailableTimes)

	list, err := h.ListPatientAppointments(ctx, &pb.ListPatientAppointmentsRequest{Condition: "future"})
	require.NoError(t, err)
	require.Len(t, list.Appointments, 1)

	_, err = h.CancelAppointment(ctx, &pb.CancelAppointmentRequest{Id: booked.Appointment.Id})
	require.NoError(t, err)
	list, err = h.ListPatientAppointments(ctx, &pb.ListPatientAppointmentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Appointments)
}

func TestDoctorJourney(t *testing.T) {
	h, _ := newHandler(t)
	doc := addDoctor(t, h)
	ann := authed(registerAndLogin(t, h, "Ann Smith", "ann@example.com", "555"))

	booked, err := h.BookAppointment(ann, &pb.BookAppointmentRequest{DoctorId: doc.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(10))})
	require.NoError(t, err)

	login, err := h.DoctorLogin(context.Background(), &pb.LoginRequest{Email: "lee@example.com", Password: "docpass"})
	require.NoError(t, err)
	dctx := authed(login.Token)

	day, err := h.ListDoctorAppointments(dctx, &pb.ListDoctorAppointmentsRequest{Date: tomorrowAt(0).Format("2006-01-02"), PatientName: "smith"})
	require.NoError(t, err)
	require.Len(t, day.Appointments, 1)
	assert.Equal(t, "ann@example.com", day.Appointments[0].PatientEmail)

	saved, err := h.SavePrescription(dctx, &pb.SavePrescriptionRequest{AppointmentId: booked.Appointment.Id, Medication: "aspirin", Dosage: "1/day"})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", saved.Prescription.PatientName)

	got, err := h.GetPrescription(dctx, &pb.GetPrescriptionRequest{AppointmentId: booked.Appointment.Id})
	require.NoError(t, err)
	assert.Equal(t, "aspirin", got.Prescription.Medication)
	assert.True(t, got.Prescription.CreatedAt.Valid())

	past, err := h.ListPatientAppointments(ann, &pb.ListPatientAppointmentsRequest{Condition: "past"})
	require.NoError(t, err)
	require.Len(t, past.Appointments, 1)
	assert.Equal(t, int32(model.StatusCompleted), past.Appointments[0].Status)
}

func TestStatusCodes(t *testing.T) {
	h, _ := newHandler(t)
	doc := addDoctor(t, h)
	ann := authed(registerAndLogin(t, h, "Ann Smith", "ann@example.com", "555"))
	bob := authed(registerAndLogin(t, h, "Bob Jones", "bob@example.com", "777"))

	booked, err := h.BookAppointment(ann, &pb.BookAppointmentRequest{DoctorId: doc.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(9))})
	require.NoError(t, err)

	cases := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"wrong password", func() error {
			_, err := h.PatientLogin(context.Background(), &pb.LoginRequest{Email: "ann@example.com", Password: "nope"})
			return err
		}, codes.Unauthenticated},
		{"duplicate signup", func() error {
			_, err := h.RegisterPatient(context.Background(), &pb.RegisterPatientRequest{Name: "A", Email: "ann@example.com", Phone: "9", Password: "patientpw"})
			return err
		}, codes.AlreadyExists},
		{"no token", func() error {
			_, err := h.GetPatient(context.Background(), &pb.GetPatientRequest{})
			return err
		}, codes.Unauthenticated},
		{"slot already taken", func() error {
			_, err := h.BookAppointment(bob, &pb.BookAppointmentRequest{DoctorId: doc.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(9))})
			return err
		}, codes.InvalidArgument},
		{"missing time", func() error {
			_, err := h.BookAppointment(bob, &pb.BookAppointmentRequest{DoctorId: doc.Id})
			return err
		}, codes.InvalidArgument},
		{"cancel someone else's", func() error {
			_, err := h.CancelAppointment(bob, &pb.CancelAppointmentRequest{Id: booked.Appointment.Id})
			return err
		}, codes.PermissionDenied},
		{"cancel unknown", func() error {
			_, err := h.CancelAppointment(bob, &pb.CancelAppointmentRequest{Id: 999})
			return err
		}, codes.NotFound},
		{"bad date", func() error {
			_, err := h.GetAvailability(ann, &pb.GetAvailabilityRequest{Role: "patient", DoctorId: doc.Id, Date: "14/03/2031"})
			return err
		}, codes.InvalidArgument},
		{"delete unknown doctor", func() error {
			_, err := h.DeleteDoctor(context.Background(), &pb.DeleteDoctorRequest{Id: 999})
			return err
		}, codes.NotFound},
		{"no prescription yet", func() error {
			_, err := h.GetPrescription(ann, &pb.GetPrescriptionRequest{AppointmentId: booked.Appointment.Id})
			return err
		}, codes.NotFound},
		{"bad condition", func() error {
			_, err := h.ListPatientAppointments(ann, &pb.ListPatientAppointmentsRequest{Condition: "someday"})
			return err
		}, codes.InvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.Equal(t, tc.want, status.Code(err), err)
		})
	}
}

func TestRescheduleCollisionIsAlreadyExists(t *testing.T) {
	h, _ := newHandler(t)
	doc := addDoctor(t, h)
	ann := authed(registerAndLogin(t, h, "Ann Smith", "ann@example.com", "555"))

	_, err := h.BookAppointment(ann, &pb.BookAppointmentRequest{DoctorId: doc.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(9))})
	require.NoError(t, err)
	second, err := h.BookAppointment(ann, &pb.BookAppointmentRequest{DoctorId: doc.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(10))})
	require.NoError(t, err)

	_, err = h.RescheduleAppointment(ann, &pb.RescheduleAppointmentRequest{
		Id: second.Appointment.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(9)),
	})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	moved, err := h.RescheduleAppointment(ann, &pb.RescheduleAppointmentRequest{
		Id: second.Appointment.Id, AppointmentTime: pb.NewTimestamp(tomorrowAt(15)),
	})
	require.NoError(t, err)
	assert.Equal(t, 15, moved.Appointment.AppointmentTime.AsTime().Hour())
}

func TestDoctorDirectory(t *testing.T) {
	h, _ := newHandler(t)
	doc := addDoctor(t, h)
	ctx := context.Background()

	upd, err := h.UpdateDoctor(ctx, &pb.UpdateDoctorRequest{
		Id: doc.Id, Name: "Dr. Lee", Specialty: "Cardiology", Email: "lee@example.com",
		AvailableTimes: []string{"3:00PM"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3:00PM"}, upd.Doctor.AvailableTimes)

	pm, err := h.FilterDoctors(ctx, &pb.FilterDoctorsRequest{Time: "PM"})
	require.NoError(t, err)
	require.Len(t, pm.Doctors, 1)
	am, err := h.FilterDoctors(ctx, &pb.FilterDoctorsRequest{Time: "AM"})
	require.NoError(t, err)
	assert.Empty(t, am.Doctors)

	_, err = h.DeleteDoctor(ctx, &pb.DeleteDoctorRequest{Id: doc.Id})
	require.NoError(t, err)
	all, err := h.ListDoctors(ctx, &pb.ListDoctorsRequest{})
	require.NoError(t, err)
	assert.Empty(t, all.Doctors)
}

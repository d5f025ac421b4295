// Package appointment implements booking, rescheduling, cancellation and
// status transitions for appointments.
package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"clinic-appointments-api/internal/apperr"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

// Records is the slice of the record store the lifecycle needs.
type Records interface {
	DoctorExists(ctx context.Context, id int64) (bool, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	Appointment(ctx context.Context, id int64) (*model.Appointment, error)
	RescheduleAppointment(ctx context.Context, id int64, at time.Time, st model.Status) error
	SetAppointmentStatus(ctx context.Context, id int64, st model.Status) (bool, error)
	DeleteAppointment(ctx context.Context, id int64) error
	DoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time, patientName string) ([]model.Appointment, error)
	PatientAppointments(ctx context.Context, patientID int64, status *model.Status, doctorName string) ([]model.Appointment, error)
}

// Owners resolves the account behind a token.
type Owners interface {
	ResolveOwnerID(ctx context.Context, token string, role auth.Role) (int64, error)
}

// Slots answers which labels are still free for a doctor on a date.
type Slots interface {
	Availability(ctx context.Context, doctorID int64, date time.Time) ([]string, error)
	Location() *time.Location
}

type BookingObserver interface {
	ObserveBooking(outcome string)
}

type Candidate struct {
	DoctorID  int64
	PatientID int64
	Start     time.Time
}

// Update carries a reschedule request. DoctorID zero means the
// appointment's current doctor.
type Update struct {
	ID              int64
	DoctorID        int64
	AppointmentTime time.Time
	Status          model.Status
}

type PatientFilter struct {
	Status     *model.Status
	DoctorName string
}

type Lifecycle struct {
	records Records
	owners  Owners
	slots   Slots
	now     func() time.Time
	log     zerolog.Logger
	obs     BookingObserver
}

type Option func(*Lifecycle)

func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Lifecycle) { l.log = log }
}

func WithBookingObserver(o BookingObserver) Option {
	return func(l *Lifecycle) { l.obs = o }
}

func New(records Records, owners Owners, slots Slots, opts ...Option) *Lifecycle {
	l := &Lifecycle{records: records, owners: owners, slots: slots, now: time.Now, log: zerolog.Nop()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// ValidateBooking reports whether the candidate's start label is among the
// doctor's free slots on that date. A missing doctor is simply invalid.
func (l *Lifecycle) ValidateBooking(ctx context.Context, c Candidate) (bool, error) {
	ok, err := l.records.DoctorExists(ctx, c.DoctorID)
	if err != nil {
		return false, apperr.Internal("load doctor", err)
	}
	if !ok {
		return false, nil
	}
	free, err := l.slots.Availability(ctx, c.DoctorID, c.Start)
	if err != nil {
		return false, err
	}
	return availability.Contains(free, availability.LabelOf(c.Start, l.slots.Location())), nil
}

// Book persists a Scheduled appointment for a free future slot. Losing a
// race for the same slot is a Conflict; anything else wrong with the
// candidate is a Validation error.
func (l *Lifecycle) Book(ctx context.Context, c Candidate) (*model.Appointment, error) {
	if !c.Start.After(l.now()) {
		l.observe("invalid")
		return nil, apperr.Invalid("appointment time must be in the future")
	}
	if !onMinute(c.Start) {
		l.observe("invalid")
		return nil, apperr.Invalid("appointment time must be on a whole minute")
	}
	ok, err := l.ValidateBooking(ctx, c)
	if err != nil {
		l.observe("error")
		return nil, err
	}
	if !ok {
		l.observe("invalid")
		return nil, apperr.Invalid("doctor not found or time slot not available")
	}

	a := &model.Appointment{
		DoctorID:        c.DoctorID,
		PatientID:       c.PatientID,
		AppointmentTime: c.Start,
		Status:          model.StatusScheduled,
	}
	err = l.records.CreateAppointment(ctx, a)
	switch {
	case errors.Is(err, store.ErrSlotTaken):
		l.observe("conflict")
		return nil, apperr.Conflict("time slot already booked")
	case errors.Is(err, store.ErrNotFound):
		l.observe("invalid")
		return nil, apperr.Invalid("doctor or patient not found")
	case err != nil:
		l.observe("error")
		return nil, apperr.Internal("save appointment", err)
	}

	l.observe("booked")
	l.log.Info().Int64("appointment_id", a.ID).Int64("doctor_id", a.DoctorID).
		Time("start", a.AppointmentTime).Msg("appointment booked")
	return l.reload(ctx, a)
}

// Reschedule overwrites the start time and status of an appointment the
// caller owns. The new time is not checked against availability; a clash
// with another scheduled appointment is still refused.
func (l *Lifecycle) Reschedule(ctx context.Context, token string, u Update) (*model.Appointment, error) {
	a, err := l.owned(ctx, token, u.ID)
	if err != nil {
		return nil, err
	}
	if !u.Status.Valid() {
		return nil, apperr.Invalid("unknown appointment status")
	}
	if !onMinute(u.AppointmentTime) {
		return nil, apperr.Invalid("appointment time must be on a whole minute")
	}

	doctorID := u.DoctorID
	if doctorID == 0 {
		doctorID = a.DoctorID
	}
	ok, err := l.records.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, apperr.Internal("load doctor", err)
	}
	if !ok {
		return nil, apperr.Invalid("doctor not found")
	}

	err = l.records.RescheduleAppointment(ctx, a.ID, u.AppointmentTime, u.Status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound("appointment not found")
	case errors.Is(err, store.ErrSlotTaken):
		return nil, apperr.Conflict("time slot already booked")
	case err != nil:
		return nil, apperr.Internal("update appointment", err)
	}

	a.AppointmentTime = u.AppointmentTime
	a.Status = u.Status
	return l.reload(ctx, a)
}

// Cancel deletes an appointment owned by the calling patient.
func (l *Lifecycle) Cancel(ctx context.Context, id int64, token string) error {
	a, err := l.owned(ctx, token, id)
	if err != nil {
		return err
	}
	err = l.records.DeleteAppointment(ctx, a.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("appointment not found")
	}
	if err != nil {
		return apperr.Internal("delete appointment", err)
	}
	l.log.Info().Int64("appointment_id", a.ID).Msg("appointment cancelled")
	return nil
}

// ChangeStatus is the administrative transition. No ownership check, and
// an unknown id is silently ignored.
func (l *Lifecycle) ChangeStatus(ctx context.Context, id int64, st model.Status) error {
	if !st.Valid() {
		return apperr.Invalid("unknown appointment status")
	}
	touched, err := l.records.SetAppointmentStatus(ctx, id, st)
	if errors.Is(err, store.ErrSlotTaken) {
		return apperr.Conflict("time slot already booked")
	}
	if err != nil {
		return apperr.Internal("update appointment status", err)
	}
	if !touched {
		l.log.Debug().Int64("appointment_id", id).Msg("status change for unknown appointment ignored")
	}
	return nil
}

// QueryByDoctorAndDate lists a doctor's appointments on date in the clinic
// time zone, optionally narrowed by a patient name fragment.
func (l *Lifecycle) QueryByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time, patientName string) ([]model.Appointment, error) {
	from, to := availability.DayWindow(date, l.slots.Location())
	out, err := l.records.DoctorAppointments(ctx, doctorID, from, to, patientName)
	if err != nil {
		return nil, apperr.Internal("list appointments", err)
	}
	if out == nil {
		out = []model.Appointment{}
	}
	return out, nil
}

func (l *Lifecycle) QueryByPatient(ctx context.Context, patientID int64, f PatientFilter) ([]model.Appointment, error) {
	out, err := l.records.PatientAppointments(ctx, patientID, f.Status, f.DoctorName)
	if err != nil {
		return nil, apperr.Internal("list appointments", err)
	}
	if out == nil {
		out = []model.Appointment{}
	}
	return out, nil
}

// ParseCondition maps the dashboard filter ("past", "future" or a status
// name) to a status. Empty means no filter.
func ParseCondition(v string) (*model.Status, error) {
	if v == "" {
		return nil, nil
	}
	st, err := model.ParseStatus(v)
	if err != nil {
		return nil, apperr.Invalid("unknown condition " + v)
	}
	return &st, nil
}

// owned loads appointment id and checks it belongs to the patient behind
// token.
func (l *Lifecycle) owned(ctx context.Context, token string, id int64) (*model.Appointment, error) {
	owner, err := l.owners.ResolveOwnerID(ctx, token, auth.RolePatient)
	if err != nil {
		if apperr.Is(err, apperr.KindInternal) {
			return nil, err
		}
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	a, err := l.records.Appointment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Internal("load appointment", err)
	}
	if a.PatientID != owner {
		return nil, apperr.Forbidden("appointment belongs to another patient")
	}
	return a, nil
}

// reload refreshes the joined read-side fields; on failure the written
// record is returned as is.
func (l *Lifecycle) reload(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	full, err := l.records.Appointment(ctx, a.ID)
	if err != nil {
		l.log.Warn().Err(err).Int64("appointment_id", a.ID).Msg("reload appointment")
		return a, nil
	}
	return full, nil
}

// onMinute reports whether t has no seconds. Slot labels have minute
// precision and the store compares exact start times, so two starts in the
// same minute would otherwise both claim one slot.
func onMinute(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0
}

func (l *Lifecycle) observe(outcome string) {
	if l.obs != nil {
		l.obs.ObserveBooking(outcome)
	}
}

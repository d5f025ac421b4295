package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-appointments-api/internal/apperr"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

type fakeDoctors map[int64]model.Doctor

func (f fakeDoctors) Doctor(_ context.Context, id int64) (*model.Doctor, error) {
	d, ok := f[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

type fakeBookings struct {
	appts []model.Appointment
	err   error
	from  time.Time
	to    time.Time
}

func (f *fakeBookings) DoctorAppointments(_ context.Context, doctorID int64, from, to time.Time, _ string) ([]model.Appointment, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID && !a.AppointmentTime.Before(from) && a.AppointmentTime.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type latency struct{ n int }

func (l *latency) ObserveAvailability(float64) { l.n++ }

var day = time.Date(2031, 3, 14, 0, 0, 0, 0, time.UTC)

func TestAvailability_UniverseMinusBooked(t *testing.T) {
	docs := fakeDoctors{1: {ID: 1, AvailableTimes: []string{"9:00AM", "10:00AM", "2:00PM", "9:00am"}}}
	books := &fakeBookings{appts: []model.Appointment{
		{DoctorID: 1, AppointmentTime: day.Add(10 * time.Hour), Status: model.StatusScheduled},
		{DoctorID: 1, AppointmentTime: day.Add(14 * time.Hour), Status: model.StatusCompleted},
		{DoctorID: 1, AppointmentTime: day.Add(33 * time.Hour)}, // next day, 9:00AM
		{DoctorID: 2, AppointmentTime: day.Add(9 * time.Hour)},
	}}
	lat := &latency{}
	c := availability.NewCalculator(docs, books, time.UTC, lat)

	got, err := c.Availability(context.Background(), 1, day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00AM"}, got)
	assert.Equal(t, day, books.from)
	assert.Equal(t, day.AddDate(0, 0, 1), books.to)
	assert.Equal(t, 1, lat.n)
}

func TestAvailability_UnknownDoctorIsEmpty(t *testing.T) {
	c := availability.NewCalculator(fakeDoctors{}, &fakeBookings{}, time.UTC, nil)

	got, err := c.Availability(context.Background(), 42, day)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAvailability_StoreFailureIsInternal(t *testing.T) {
	docs := fakeDoctors{1: {ID: 1, AvailableTimes: []string{"9:00AM"}}}
	c := availability.NewCalculator(docs, &fakeBookings{err: errors.New("boom")}, time.UTC, nil)

	_, err := c.Availability(context.Background(), 1, day)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestAvailability_ClinicTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	docs := fakeDoctors{1: {ID: 1, AvailableTimes: []string{"9:00PM", "10:00AM"}}}
	// 02:00 UTC on the 15th is 9:00PM on the 14th in the clinic
	books := &fakeBookings{appts: []model.Appointment{{DoctorID: 1, AppointmentTime: day.Add(26 * time.Hour)}}}
	c := availability.NewCalculator(docs, books, loc, nil)

	date, err := availability.ParseDate("2031-03-14", loc)
	require.NoError(t, err)
	got, err := c.Availability(context.Background(), 1, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00AM"}, got)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "9:00AM", availability.LabelOf(day.Add(9*time.Hour), time.UTC))
	assert.Equal(t, "12:30PM", availability.LabelOf(day.Add(12*time.Hour+30*time.Minute), nil))
	assert.True(t, availability.SameSlot(" 9:00am", "9:00AM"))
	assert.False(t, availability.SameSlot("9:00AM", "9:00PM"))
	assert.True(t, availability.Contains([]string{"2:00pm"}, "2:00PM"))
	assert.True(t, availability.HasMeridiem("2:00pm", "PM"))
	assert.False(t, availability.HasMeridiem("2:00PM", "am"))
}

func TestLeadingZeroLabels(t *testing.T) {
	assert.Equal(t, "9:00AM", availability.Normalize(" 09:00am"))
	assert.True(t, availability.SameSlot("09:00AM", availability.LabelOf(day.Add(9*time.Hour), time.UTC)))

	c, ok := availability.Canonical("09:05pm")
	require.True(t, ok)
	assert.Equal(t, "9:05PM", c)
	_, ok = availability.Canonical("noon")
	assert.False(t, ok)
}

func TestAvailability_LeadingZeroUniverse(t *testing.T) {
	docs := fakeDoctors{1: {ID: 1, AvailableTimes: []string{"09:00AM", "10:00AM"}}}
	books := &fakeBookings{appts: []model.Appointment{{DoctorID: 1, AppointmentTime: day.Add(9 * time.Hour)}}}
	c := availability.NewCalculator(docs, books, time.UTC, nil)

	got, err := c.Availability(context.Background(), 1, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00AM"}, got)
}

func TestAvailability_CompletedStillOccupiesSlot(t *testing.T) {
	docs := fakeDoctors{1: {ID: 1, AvailableTimes: []string{"9:00AM", "10:00AM"}}}
	books := &fakeBookings{appts: []model.Appointment{
		{DoctorID: 1, AppointmentTime: day.Add(9 * time.Hour), Status: model.StatusCompleted},
	}}
	c := availability.NewCalculator(docs, books, time.UTC, nil)

	got, err := c.Availability(context.Background(), 1, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00AM"}, got)
}

func TestParseDate(t *testing.T) {
	d, err := availability.ParseDate(" 2031-03-14 ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, day, d)

	_, err = availability.ParseDate("14/03/2031", time.UTC)
	assert.Error(t, err)
}

func TestValidLabel(t *testing.T) {
	for _, ok := range []string{"9:00AM", " 10:30pm", "12:00PM"} {
		assert.True(t, availability.ValidLabel(ok), ok)
	}
	for _, bad := range []string{"", "9AM", "25:00PM", "09:00", "noon"} {
		assert.False(t, availability.ValidLabel(bad), bad)
	}
}

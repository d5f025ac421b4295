package availability

import (
	"context"
	"errors"
	"time"

	"clinic-appointments-api/internal/apperr"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/store"
)

// Doctors resolves a doctor and its slot universe.
type Doctors interface {
	Doctor(ctx context.Context, id int64) (*model.Doctor, error)
}

// Bookings lists a doctor's appointments in [from, to).
type Bookings interface {
	DoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time, patientName string) ([]model.Appointment, error)
}

type LatencyObserver interface {
	ObserveAvailability(seconds float64)
}

// Calculator derives bookable slots. It holds no mutable state and is safe
// for concurrent use; results are snapshots.
type Calculator struct {
	doctors  Doctors
	bookings Bookings
	loc      *time.Location
	latency  LatencyObserver
}

func NewCalculator(d Doctors, b Bookings, loc *time.Location, lat LatencyObserver) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{doctors: d, bookings: b, loc: loc, latency: lat}
}

func (c *Calculator) Location() *time.Location { return c.loc }

// Availability returns the doctor's slot universe for date with every
// booked label removed, in universe order. An unknown doctor has no slots.
func (c *Calculator) Availability(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	if c.latency != nil {
		defer func(start time.Time) { c.latency.ObserveAvailability(time.Since(start).Seconds()) }(time.Now())
	}

	doc, err := c.doctors.Doctor(ctx, doctorID)
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, apperr.Internal("load doctor", err)
	}

	from, to := DayWindow(date, c.loc)
	booked, err := c.bookings.DoctorAppointments(ctx, doctorID, from, to, "")
	if err != nil {
		return nil, apperr.Internal("load appointments", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for i := range booked {
		taken[Normalize(LabelOf(booked[i].AppointmentTime, c.loc))] = struct{}{}
	}

	out := make([]string, 0, len(doc.AvailableTimes))
	seen := make(map[string]struct{}, len(doc.AvailableTimes))
	for _, s := range doc.AvailableTimes {
		n := Normalize(s)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := taken[n]; ok {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

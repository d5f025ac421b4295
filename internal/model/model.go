package model

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentDuration is fixed; appointments are not variable-length.
const AppointmentDuration = time.Hour

type Status int

const (
	StatusScheduled Status = 0
	StatusCompleted Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusCompleted:
		return "completed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) Valid() bool {
	return s == StatusScheduled || s == StatusCompleted
}

// ParseStatus accepts the status names as well as the "future"/"past"
// vocabulary used by the patient dashboard filters.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "scheduled", "future", "0":
		return StatusScheduled, nil
	case "completed", "past", "1":
		return StatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown status %q", v)
}

type Admin struct {
	ID       int64
	Username string
	Password string
}

type Doctor struct {
	ID             int64
	Name           string
	Specialty      string
	Email          string
	Phone          string
	Password       string
	AvailableTimes []string
}

type Patient struct {
	ID       int64
	Name     string
	Email    string
	Phone    string
	Password string
	Address  string
}

type Appointment struct {
	ID              int64
	DoctorID        int64
	PatientID       int64
	AppointmentTime time.Time
	Status          Status

	// read side, filled from joins
	DoctorName   string
	PatientName  string
	PatientEmail string
}

func (a *Appointment) End() time.Time {
	return a.AppointmentTime.Add(AppointmentDuration)
}

type Prescription struct {
	ID            int64
	AppointmentID int64
	PatientName   string
	Medication    string
	Dosage        string
	DoctorNotes   string
	CreatedAt     time.Time
}

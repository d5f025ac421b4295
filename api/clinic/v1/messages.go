package clinicv1

import (
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp carries the protobuf well-known time type and renders it as
// RFC 3339 text in JSON.
type Timestamp struct {
	*timestamppb.Timestamp
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{timestamppb.New(t)}
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.Timestamp == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.Timestamp)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(b, ts); err != nil {
		return err
	}
	t.Timestamp = ts
	return nil
}

// Valid reports whether t is set and in the representable range.
func (t *Timestamp) Valid() bool {
	return t != nil && t.Timestamp != nil && t.CheckValid() == nil
}

// accounts

type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
}

type GetPatientRequest struct{}

type Patient struct {
	Id      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type PatientResponse struct {
	Patient *Patient `json:"patient"`
}

// doctors

type Doctor struct {
	Id             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	AvailableTimes []string `json:"availableTimes"`
}

type ListDoctorsRequest struct{}

type FilterDoctorsRequest struct {
	Name      string `json:"name,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	// Time is "AM" or "PM".
	Time string `json:"time,omitempty"`
}

type DoctorsResponse struct {
	Doctors []*Doctor `json:"doctors"`
}

type AddDoctorRequest struct {
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Password       string   `json:"password"`
	AvailableTimes []string `json:"availableTimes"`
}

type UpdateDoctorRequest struct {
	Id             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Password       string   `json:"password,omitempty"`
	AvailableTimes []string `json:"availableTimes"`
}

type DoctorResponse struct {
	Doctor  *Doctor `json:"doctor"`
	Message string  `json:"message,omitempty"`
}

type DeleteDoctorRequest struct {
	Id int64 `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type GetAvailabilityRequest struct {
	// Role is the role the token must hold, "doctor" or "patient".
	Role     string `json:"role"`
	DoctorId int64  `json:"doctorId"`
	// Date is a calendar day, "2006-01-02".
	Date string `json:"date"`
}

type AvailabilityResponse struct {
	DoctorId       int64    `json:"doctorId"`
	Date           string   `json:"date"`
	AvailableTimes []string `json:"availableTimes"`
}

// appointments

type Appointment struct {
	Id              int64      `json:"id"`
	DoctorId        int64      `json:"doctorId"`
	PatientId       int64      `json:"patientId"`
	AppointmentTime *Timestamp `json:"appointmentTime"`
	// Status is 0 (scheduled) or 1 (completed).
	Status       int32  `json:"status"`
	DoctorName   string `json:"doctorName,omitempty"`
	PatientName  string `json:"patientName,omitempty"`
	PatientEmail string `json:"patientEmail,omitempty"`
}

type BookAppointmentRequest struct {
	DoctorId        int64      `json:"doctorId"`
	AppointmentTime *Timestamp `json:"appointmentTime"`
}

type RescheduleAppointmentRequest struct {
	Id              int64      `json:"id"`
	DoctorId        int64      `json:"doctorId,omitempty"`
	AppointmentTime *Timestamp `json:"appointmentTime"`
	Status          int32      `json:"status"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
	Message     string       `json:"message,omitempty"`
}

type CancelAppointmentRequest struct {
	Id int64 `json:"id"`
}

type ListDoctorAppointmentsRequest struct {
	Date        string `json:"date"`
	PatientName string `json:"patientName,omitempty"`
}

type ListPatientAppointmentsRequest struct {
	// Condition is "past", "future" or a status name.
	Condition  string `json:"condition,omitempty"`
	DoctorName string `json:"doctorName,omitempty"`
}

type AppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

// prescriptions

type Prescription struct {
	Id            int64      `json:"id"`
	AppointmentId int64      `json:"appointmentId"`
	PatientName   string     `json:"patientName"`
	Medication    string     `json:"medication"`
	Dosage        string     `json:"dosage"`
	DoctorNotes   string     `json:"doctorNotes,omitempty"`
	CreatedAt     *Timestamp `json:"createdAt,omitempty"`
}

type SavePrescriptionRequest struct {
	AppointmentId int64  `json:"appointmentId"`
	PatientName   string `json:"patientName,omitempty"`
	Medication    string `json:"medication"`
	Dosage        string `json:"dosage"`
	DoctorNotes   string `json:"doctorNotes,omitempty"`
}

type GetPrescriptionRequest struct {
	AppointmentId int64 `json:"appointmentId"`
}

type PrescriptionResponse struct {
	Prescription *Prescription `json:"prescription"`
	Message      string        `json:"message,omitempty"`
}

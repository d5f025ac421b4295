package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/appointment"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/middleware"
	"clinic-appointments-api/internal/model"
)

func (h *Handler) BookAppointment(ctx context.Context, req *pb.BookAppointmentRequest) (*pb.AppointmentResponse, error) {
	if req.DoctorId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "doctor id required")
	}
	if !req.AppointmentTime.Valid() {
		return nil, status.Error(codes.InvalidArgument, "appointment time required")
	}

	patientID, err := h.owner(ctx, auth.RolePatient)
	if err != nil {
		return nil, err
	}

	a, err := h.appts.Book(ctx, appointment.Candidate{
		DoctorID:  req.DoctorId,
		PatientID: patientID,
		Start:     req.AppointmentTime.AsTime(),
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.AppointmentResponse{Appointment: appointmentToProto(a), Message: "appointment booked"}, nil
}

func (h *Handler) RescheduleAppointment(ctx context.Context, req *pb.RescheduleAppointmentRequest) (*pb.AppointmentResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if !req.AppointmentTime.Valid() {
		return nil, status.Error(codes.InvalidArgument, "appointment time required")
	}

	a, err := h.appts.Reschedule(ctx, middleware.TokenFrom(ctx), appointment.Update{
		ID:              req.Id,
		DoctorID:        req.DoctorId,
		AppointmentTime: req.AppointmentTime.AsTime(),
		Status:          model.Status(req.Status),
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.AppointmentResponse{Appointment: appointmentToProto(a), Message: "appointment updated"}, nil
}

func (h *Handler) CancelAppointment(ctx context.Context, req *pb.CancelAppointmentRequest) (*pb.MessageResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := h.appts.Cancel(ctx, req.Id, middleware.TokenFrom(ctx)); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.MessageResponse{Message: "appointment cancelled"}, nil
}

// ListDoctorAppointments shows the calling doctor's day; an empty date
// means today in the clinic time zone.
func (h *Handler) ListDoctorAppointments(ctx context.Context, req *pb.ListDoctorAppointmentsRequest) (*pb.AppointmentsResponse, error) {
	doctorID, err := h.owner(ctx, auth.RoleDoctor)
	if err != nil {
		return nil, err
	}

	date := time.Now().In(h.slots.Location())
	if req.Date != "" {
		if date, err = availability.ParseDate(req.Date, h.slots.Location()); err != nil {
			return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
		}
	}

	as, err := h.appts.QueryByDoctorAndDate(ctx, doctorID, date, req.PatientName)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.AppointmentsResponse{Appointments: appointmentsToProto(as)}, nil
}

func (h *Handler) ListPatientAppointments(ctx context.Context, req *pb.ListPatientAppointmentsRequest) (*pb.AppointmentsResponse, error) {
	patientID, err := h.owner(ctx, auth.RolePatient)
	if err != nil {
		return nil, err
	}
	st, err := appointment.ParseCondition(req.Condition)
	if err != nil {
		return nil, h.fail(ctx, err)
	}

	as, err := h.appts.QueryByPatient(ctx, patientID, appointment.PatientFilter{Status: st, DoctorName: req.DoctorName})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.AppointmentsResponse{Appointments: appointmentsToProto(as)}, nil
}

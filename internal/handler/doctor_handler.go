package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/clinic"
	"clinic-appointments-api/internal/model"
)

func (h *Handler) ListDoctors(ctx context.Context, _ *pb.ListDoctorsRequest) (*pb.DoctorsResponse, error) {
	ds, err := h.clinic.ListDoctors(ctx)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.DoctorsResponse{Doctors: doctorsToProto(ds)}, nil
}

func (h *Handler) FilterDoctors(ctx context.Context, req *pb.FilterDoctorsRequest) (*pb.DoctorsResponse, error) {
	ds, err := h.clinic.FilterDoctors(ctx, clinic.DoctorFilter{
		Name:      req.Name,
		Specialty: req.Specialty,
		Meridiem:  req.Time,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.DoctorsResponse{Doctors: doctorsToProto(ds)}, nil
}

func (h *Handler) AddDoctor(ctx context.Context, req *pb.AddDoctorRequest) (*pb.DoctorResponse, error) {
	d, err := h.clinic.AddDoctor(ctx, model.Doctor{
		Name:           req.Name,
		Specialty:      req.Specialty,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		AvailableTimes: req.AvailableTimes,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.DoctorResponse{Doctor: doctorToProto(d), Message: "doctor added"}, nil
}

func (h *Handler) UpdateDoctor(ctx context.Context, req *pb.UpdateDoctorRequest) (*pb.DoctorResponse, error) {
	d, err := h.clinic.UpdateDoctor(ctx, model.Doctor{
		ID:             req.Id,
		Name:           req.Name,
		Specialty:      req.Specialty,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		AvailableTimes: req.AvailableTimes,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.DoctorResponse{Doctor: doctorToProto(d), Message: "doctor updated"}, nil
}

func (h *Handler) DeleteDoctor(ctx context.Context, req *pb.DeleteDoctorRequest) (*pb.MessageResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := h.clinic.DeleteDoctor(ctx, req.Id); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.MessageResponse{Message: "doctor deleted"}, nil
}

func (h *Handler) GetAvailability(ctx context.Context, req *pb.GetAvailabilityRequest) (*pb.AvailabilityResponse, error) {
	if req.DoctorId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "doctor id required")
	}
	date, err := availability.ParseDate(req.Date, h.slots.Location())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
	}

	free, err := h.slots.Availability(ctx, req.DoctorId, date)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.AvailabilityResponse{
		DoctorId:       req.DoctorId,
		Date:           date.Format("2006-01-02"),
		AvailableTimes: free,
	}, nil
}

package handler

import (
	"context"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/model"
)

func (h *Handler) AdminLogin(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tok, err := h.clinic.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.LoginResponse{Token: tok, Message: "login successful"}, nil
}

func (h *Handler) DoctorLogin(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tok, err := h.clinic.DoctorLogin(ctx, req.Email, req.Password)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.LoginResponse{Token: tok, Message: "login successful"}, nil
}

func (h *Handler) PatientLogin(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tok, err := h.clinic.PatientLogin(ctx, req.Email, req.Password)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.LoginResponse{Token: tok, Message: "login successful"}, nil
}

func (h *Handler) RegisterPatient(ctx context.Context, req *pb.RegisterPatientRequest) (*pb.PatientResponse, error) {
	p, err := h.clinic.RegisterPatient(ctx, model.Patient{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.PatientResponse{Patient: patientToProto(p)}, nil
}

func (h *Handler) GetPatient(ctx context.Context, _ *pb.GetPatientRequest) (*pb.PatientResponse, error) {
	id, err := h.owner(ctx, auth.RolePatient)
	if err != nil {
		return nil, err
	}
	p, err := h.clinic.Patient(ctx, id)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.PatientResponse{Patient: patientToProto(p)}, nil
}

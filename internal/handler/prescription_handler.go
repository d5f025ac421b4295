package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/model"
)

func (h *Handler) SavePrescription(ctx context.Context, req *pb.SavePrescriptionRequest) (*pb.PrescriptionResponse, error) {
	p, err := h.rx.Save(ctx, model.Prescription{
		AppointmentID: req.AppointmentId,
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.PrescriptionResponse{Prescription: prescriptionToProto(p), Message: "prescription saved"}, nil
}

func (h *Handler) GetPrescription(ctx context.Context, req *pb.GetPrescriptionRequest) (*pb.PrescriptionResponse, error) {
	if req.AppointmentId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "appointment id required")
	}
	p, err := h.rx.ForAppointment(ctx, req.AppointmentId)
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return &pb.PrescriptionResponse{Prescription: prescriptionToProto(p)}, nil
}

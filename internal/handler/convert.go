package handler

import (
	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/model"
)

func patientToProto(p *model.Patient) *pb.Patient {
	return &pb.Patient{Id: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Address: p.Address}
}

func doctorToProto(d *model.Doctor) *pb.Doctor {
	slots := d.AvailableTimes
	if slots == nil {
		slots = []string{}
	}
	return &pb.Doctor{
		Id:             d.ID,
		Name:           d.Name,
		Specialty:      d.Specialty,
		Email:          d.Email,
		Phone:          d.Phone,
		AvailableTimes: slots,
	}
}

func doctorsToProto(ds []model.Doctor) []*pb.Doctor {
	out := make([]*pb.Doctor, len(ds))
	for i := range ds {
		out[i] = doctorToProto(&ds[i])
	}
	return out
}

func appointmentToProto(a *model.Appointment) *pb.Appointment {
	return &pb.Appointment{
		Id:              a.ID,
		DoctorId:        a.DoctorID,
		PatientId:       a.PatientID,
		AppointmentTime: pb.NewTimestamp(a.AppointmentTime),
		Status:          int32(a.Status),
		DoctorName:      a.DoctorName,
		PatientName:     a.PatientName,
		PatientEmail:    a.PatientEmail,
	}
}

func appointmentsToProto(as []model.Appointment) []*pb.Appointment {
	out := make([]*pb.Appointment, len(as))
	for i := range as {
		out[i] = appointmentToProto(&as[i])
	}
	return out
}

func prescriptionToProto(p *model.Prescription) *pb.Prescription {
	out := &pb.Prescription{
		Id:            p.ID,
		AppointmentId: p.AppointmentID,
		PatientName:   p.PatientName,
		Medication:    p.Medication,
		Dosage:        p.Dosage,
		DoctorNotes:   p.DoctorNotes,
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = pb.NewTimestamp(p.CreatedAt)
	}
	return out
}

package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	pb "clinic-appointments-api/api/clinic/v1"
)

func (g *Gateway) routes(r chi.Router) {
	s := g.srv

	r.Post("/admin/login", route(g, "AdminLogin", http.StatusOK, decodeBody[pb.LoginRequest], s.AdminLogin))

	r.Route("/patient", func(r chi.Router) {
		r.Post("/login", route(g, "PatientLogin", http.StatusOK, decodeBody[pb.LoginRequest], s.PatientLogin))
		r.Post("/", route(g, "RegisterPatient", http.StatusCreated, decodeBody[pb.RegisterPatientRequest], s.RegisterPatient))
		r.Get("/me", route(g, "GetPatient", http.StatusOK, nil, s.GetPatient))
		r.Get("/appointments", route(g, "ListPatientAppointments", http.StatusOK,
			func(r *http.Request, req *pb.ListPatientAppointmentsRequest) error {
				req.Condition = trimmed(r, "condition")
				req.DoctorName = trimmed(r, "doctor")
				return nil
			}, s.ListPatientAppointments))
	})

	r.Route("/doctor", func(r chi.Router) {
		r.Post("/login", route(g, "DoctorLogin", http.StatusOK, decodeBody[pb.LoginRequest], s.DoctorLogin))
		r.Get("/", route(g, "ListDoctors", http.StatusOK, nil, s.ListDoctors))
		r.Get("/filter", route(g, "FilterDoctors", http.StatusOK,
			func(r *http.Request, req *pb.FilterDoctorsRequest) error {
				req.Name = trimmed(r, "name")
				req.Specialty = trimmed(r, "specialty")
				req.Time = trimmed(r, "time")
				return nil
			}, s.FilterDoctors))
		r.Get("/availability/{role}/{doctorID}/{date}", route(g, "GetAvailability", http.StatusOK,
			func(r *http.Request, req *pb.GetAvailabilityRequest) error {
				id, err := pathID(r, "doctorID")
				if err != nil {
					return err
				}
				req.Role = chi.URLParam(r, "role")
				req.DoctorId = id
				req.Date = chi.URLParam(r, "date")
				return nil
			}, s.GetAvailability))

		r.Post("/", route(g, "AddDoctor", http.StatusCreated, decodeBody[pb.AddDoctorRequest], s.AddDoctor))
		r.Put("/{id}", route(g, "UpdateDoctor", http.StatusOK,
			func(r *http.Request, req *pb.UpdateDoctorRequest) error {
				id, err := pathID(r, "id")
				if err != nil {
					return err
				}
				if err := decodeBody(r, req); err != nil {
					return err
				}
				req.Id = id
				return nil
			}, s.UpdateDoctor))
		r.Delete("/{id}", route(g, "DeleteDoctor", http.StatusOK,
			func(r *http.Request, req *pb.DeleteDoctorRequest) error {
				id, err := pathID(r, "id")
				req.Id = id
				return err
			}, s.DeleteDoctor))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", route(g, "ListDoctorAppointments", http.StatusOK,
			func(r *http.Request, req *pb.ListDoctorAppointmentsRequest) error {
				req.Date = trimmed(r, "date")
				req.PatientName = trimmed(r, "patientName")
				return nil
			}, s.ListDoctorAppointments))
		r.Post("/", route(g, "BookAppointment", http.StatusCreated, decodeBody[pb.BookAppointmentRequest], s.BookAppointment))
		r.Put("/{id}", route(g, "RescheduleAppointment", http.StatusOK,
			func(r *http.Request, req *pb.RescheduleAppointmentRequest) error {
				id, err := pathID(r, "id")
				if err != nil {
					return err
				}
				if err := decodeBody(r, req); err != nil {
					return err
				}
				req.Id = id
				return nil
			}, s.RescheduleAppointment))
		r.Delete("/{id}", route(g, "CancelAppointment", http.StatusOK,
			func(r *http.Request, req *pb.CancelAppointmentRequest) error {
				id, err := pathID(r, "id")
				req.Id = id
				return err
			}, s.CancelAppointment))
	})

	r.Post("/prescription", route(g, "SavePrescription", http.StatusCreated, decodeBody[pb.SavePrescriptionRequest], s.SavePrescription))
	r.Get("/prescription/{appointmentID}", route(g, "GetPrescription", http.StatusOK,
		func(r *http.Request, req *pb.GetPrescriptionRequest) error {
			id, err := pathID(r, "appointmentID")
			req.AppointmentId = id
			return err
		}, s.GetPrescription))
}

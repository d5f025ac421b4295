// Package clinicv1 defines the clinic.v1.ClinicService gRPC contract: the
// service descriptor, its request and response messages and a client.
// Messages travel as JSON under the "json" content-subtype. The descriptor
// and messages are maintained by hand; there is no .proto source.
package clinicv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "clinic.v1.ClinicService"

// FullMethod returns the "/clinic.v1.ClinicService/<method>" name used by
// interceptors.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type ClinicServiceServer interface {
	AdminLogin(context.Context, *LoginRequest) (*LoginResponse, error)
	DoctorLogin(context.Context, *LoginRequest) (*LoginResponse, error)
	PatientLogin(context.Context, *LoginRequest) (*LoginResponse, error)
	RegisterPatient(context.Context, *RegisterPatientRequest) (*PatientResponse, error)
	GetPatient(context.Context, *GetPatientRequest) (*PatientResponse, error)

	ListDoctors(context.Context, *ListDoctorsRequest) (*DoctorsResponse, error)
	FilterDoctors(context.Context, *FilterDoctorsRequest) (*DoctorsResponse, error)
	AddDoctor(context.Context, *AddDoctorRequest) (*DoctorResponse, error)
	UpdateDoctor(context.Context, *UpdateDoctorRequest) (*DoctorResponse, error)
	DeleteDoctor(context.Context, *DeleteDoctorRequest) (*MessageResponse, error)
	GetAvailability(context.Context, *GetAvailabilityRequest) (*AvailabilityResponse, error)

	BookAppointment(context.Context, *BookAppointmentRequest) (*AppointmentResponse, error)
	RescheduleAppointment(context.Context, *RescheduleAppointmentRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *CancelAppointmentRequest) (*MessageResponse, error)
	ListDoctorAppointments(context.Context, *ListDoctorAppointmentsRequest) (*AppointmentsResponse, error)
	ListPatientAppointments(context.Context, *ListPatientAppointmentsRequest) (*AppointmentsResponse, error)

	SavePrescription(context.Context, *SavePrescriptionRequest) (*PrescriptionResponse, error)
	GetPrescription(context.Context, *GetPrescriptionRequest) (*PrescriptionResponse, error)
}

// UnimplementedClinicServiceServer answers Unimplemented for every method.
// Embed it so new methods do not break existing servers.
type UnimplementedClinicServiceServer struct{}

func unimplemented(m string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", m)
}

func (UnimplementedClinicServiceServer) AdminLogin(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("AdminLogin")
}
func (UnimplementedClinicServiceServer) DoctorLogin(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("DoctorLogin")
}
func (UnimplementedClinicServiceServer) PatientLogin(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("PatientLogin")
}
func (UnimplementedClinicServiceServer) RegisterPatient(context.Context, *RegisterPatientRequest) (*PatientResponse, error) {
	return nil, unimplemented("RegisterPatient")
}
func (UnimplementedClinicServiceServer) GetPatient(context.Context, *GetPatientRequest) (*PatientResponse, error) {
	return nil, unimplemented("GetPatient")
}
func (UnimplementedClinicServiceServer) ListDoctors(context.Context, *ListDoctorsRequest) (*DoctorsResponse, error) {
	return nil, unimplemented("ListDoctors")
}
func (UnimplementedClinicServiceServer) FilterDoctors(context.Context, *FilterDoctorsRequest) (*DoctorsResponse, error) {
	return nil, unimplemented("FilterDoctors")
}
func (UnimplementedClinicServiceServer) AddDoctor(context.Context, *AddDoctorRequest) (*DoctorResponse, error) {
	return nil, unimplemented("AddDoctor")
}
func (UnimplementedClinicServiceServer) UpdateDoctor(context.Context, *UpdateDoctorRequest) (*DoctorResponse, error) {
	return nil, unimplemented("UpdateDoctor")
}
func (UnimplementedClinicServiceServer) DeleteDoctor(context.Context, *DeleteDoctorRequest) (*MessageResponse, error) {
	return nil, unimplemented("DeleteDoctor")
}
func (UnimplementedClinicServiceServer) GetAvailability(context.Context, *GetAvailabilityRequest) (*AvailabilityResponse, error) {
	return nil, unimplemented("GetAvailability")
}
func (UnimplementedClinicServiceServer) BookAppointment(context.Context, *BookAppointmentRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("BookAppointment")
}
func (UnimplementedClinicServiceServer) RescheduleAppointment(context.Context, *RescheduleAppointmentRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("RescheduleAppointment")
}
func (UnimplementedClinicServiceServer) CancelAppointment(context.Context, *CancelAppointmentRequest) (*MessageResponse, error) {
	return nil, unimplemented("CancelAppointment")
}
func (UnimplementedClinicServiceServer) ListDoctorAppointments(context.Context, *ListDoctorAppointmentsRequest) (*AppointmentsResponse, error) {
	return nil, unimplemented("ListDoctorAppointments")
}
func (UnimplementedClinicServiceServer) ListPatientAppointments(context.Context, *ListPatientAppointmentsRequest) (*AppointmentsResponse, error) {
	return nil, unimplemented("ListPatientAppointments")
}
func (UnimplementedClinicServiceServer) SavePrescription(context.Context, *SavePrescriptionRequest) (*PrescriptionResponse, error) {
	return nil, unimplemented("SavePrescription")
}
func (UnimplementedClinicServiceServer) GetPrescription(context.Context, *GetPrescriptionRequest) (*PrescriptionResponse, error) {
	return nil, unimplemented("GetPrescription")
}

// unary adapts a server method expression to a grpc.MethodDesc, running
// the interceptor chain when one is installed.
func unary[Req, Resp any](name string, call func(ClinicServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ClinicServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ClinicServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ClinicService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClinicServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AdminLogin", ClinicServiceServer.AdminLogin),
		unary("DoctorLogin", ClinicServiceServer.DoctorLogin),
		unary("PatientLogin", ClinicServiceServer.PatientLogin),
		unary("RegisterPatient", ClinicServiceServer.RegisterPatient),
		unary("GetPatient", ClinicServiceServer.GetPatient),
		unary("ListDoctors", ClinicServiceServer.ListDoctors),
		unary("FilterDoctors", ClinicServiceServer.FilterDoctors),
		unary("AddDoctor", ClinicServiceServer.AddDoctor),
		unary("UpdateDoctor", ClinicServiceServer.UpdateDoctor),
		unary("DeleteDoctor", ClinicServiceServer.DeleteDoctor),
		unary("GetAvailability", ClinicServiceServer.GetAvailability),
		unary("BookAppointment", ClinicServiceServer.BookAppointment),
		unary("RescheduleAppointment", ClinicServiceServer.RescheduleAppointment),
		unary("CancelAppointment", ClinicServiceServer.CancelAppointment),
		unary("ListDoctorAppointments", ClinicServiceServer.ListDoctorAppointments),
		unary("ListPatientAppointments", ClinicServiceServer.ListPatientAppointments),
		unary("SavePrescription", ClinicServiceServer.SavePrescription),
		unary("GetPrescription", ClinicServiceServer.GetPrescription),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/clinic/v1",
}

func RegisterClinicServiceServer(s grpc.ServiceRegistrar, srv ClinicServiceServer) {
	s.RegisterService(&ClinicService_ServiceDesc, srv)
}

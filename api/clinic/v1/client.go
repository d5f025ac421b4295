package clinicv1

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls ClinicService with the JSON codec selected on every call.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminLogin(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "AdminLogin", in, opts)
}

func (c *Client) DoctorLogin(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "DoctorLogin", in, opts)
}

func (c *Client) PatientLogin(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "PatientLogin", in, opts)
}

func (c *Client) RegisterPatient(ctx context.Context, in *RegisterPatientRequest, opts ...grpc.CallOption) (*PatientResponse, error) {
	return invoke[PatientResponse](ctx, c, "RegisterPatient", in, opts)
}

func (c *Client) GetPatient(ctx context.Context, in *GetPatientRequest, opts ...grpc.CallOption) (*PatientResponse, error) {
	return invoke[PatientResponse](ctx, c, "GetPatient", in, opts)
}

func (c *Client) ListDoctors(ctx context.Context, in *ListDoctorsRequest, opts ...grpc.CallOption) (*DoctorsResponse, error) {
	return invoke[DoctorsResponse](ctx, c, "ListDoctors", in, opts)
}

func (c *Client) FilterDoctors(ctx context.Context, in *FilterDoctorsRequest, opts ...grpc.CallOption) (*DoctorsResponse, error) {
	return invoke[DoctorsResponse](ctx, c, "FilterDoctors", in, opts)
}

func (c *Client) AddDoctor(ctx context.Context, in *AddDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c, "AddDoctor", in, opts)
}

func (c *Client) UpdateDoctor(ctx context.Context, in *UpdateDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c, "UpdateDoctor", in, opts)
}

func (c *Client) DeleteDoctor(ctx context.Context, in *DeleteDoctorRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c, "DeleteDoctor", in, opts)
}

func (c *Client) GetAvailability(ctx context.Context, in *GetAvailabilityRequest, opts ...grpc.CallOption) (*AvailabilityResponse, error) {
	return invoke[AvailabilityResponse](ctx, c, "GetAvailability", in, opts)
}

func (c *Client) BookAppointment(ctx context.Context, in *BookAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, "BookAppointment", in, opts)
}

func (c *Client) RescheduleAppointment(ctx context.Context, in *RescheduleAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, "RescheduleAppointment", in, opts)
}

func (c *Client) CancelAppointment(ctx context.Context, in *CancelAppointmentRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c, "CancelAppointment", in, opts)
}

func (c *Client) ListDoctorAppointments(ctx context.Context, in *ListDoctorAppointmentsRequest, opts ...grpc.CallOption) (*AppointmentsResponse, error) {
	return invoke[AppointmentsResponse](ctx, c, "ListDoctorAppointments", in, opts)
}

func (c *Client) ListPatientAppointments(ctx context.Context, in *ListPatientAppointmentsRequest, opts ...grpc.CallOption) (*AppointmentsResponse, error) {
	return invoke[AppointmentsResponse](ctx, c, "ListPatientAppointments", in, opts)
}

func (c *Client) SavePrescription(ctx context.Context, in *SavePrescriptionRequest, opts ...grpc.CallOption) (*PrescriptionResponse, error) {
	return invoke[PrescriptionResponse](ctx, c, "SavePrescription", in, opts)
}

func (c *Client) GetPrescription(ctx context.Context, in *GetPrescriptionRequest, opts ...grpc.CallOption) (*PrescriptionResponse, error) {
	return invoke[PrescriptionResponse](ctx, c, "GetPrescription", in, opts)
}

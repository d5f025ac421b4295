package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/auth"
)

type ctxKey string

const tokenKey ctxKey = "token"

// TokenFrom returns the bearer token the auth interceptor accepted.
func TokenFrom(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey).(string)
	return v
}

// WithToken stores token the way the auth interceptor does.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

type Validator interface {
	Validate(ctx context.Context, token string, role auth.Role) bool
}

// skip auth for these
var open = map[string]bool{
	pb.FullMethod("AdminLogin"):      true,
	pb.FullMethod("DoctorLogin"):     true,
	pb.FullMethod("PatientLogin"):    true,
	pb.FullMethod("RegisterPatient"): true,
	pb.FullMethod("ListDoctors"):     true,
	pb.FullMethod("FilterDoctors"):   true,
}

var required = map[string]auth.Role{
	pb.FullMethod("GetPatient"): auth.RolePatient,

	pb.FullMethod("AddDoctor"):    auth.RoleAdmin,
	pb.FullMethod("UpdateDoctor"): auth.RoleAdmin,
	pb.FullMethod("DeleteDoctor"): auth.RoleAdmin,

	pb.FullMethod("BookAppointment"):         auth.RolePatient,
	pb.FullMethod("RescheduleAppointment"):   auth.RolePatient,
	pb.FullMethod("CancelAppointment"):       auth.RolePatient,
	pb.FullMethod("ListPatientAppointments"): auth.RolePatient,

	pb.FullMethod("ListDoctorAppointments"): auth.RoleDoctor,
	pb.FullMethod("SavePrescription"):       auth.RoleDoctor,
	pb.FullMethod("GetPrescription"):        auth.RoleDoctor,
}

// roleFor decides which store the token's subject must belong to.
// Availability names the role in the request itself.
func roleFor(method string, req any) (auth.Role, error) {
	if r, ok := required[method]; ok {
		return r, nil
	}
	if in, ok := req.(*pb.GetAvailabilityRequest); ok {
		r, err := auth.ParseRole(in.Role)
		if err != nil || r == auth.RoleAdmin {
			return "", status.Error(codes.InvalidArgument, "role must be doctor or patient")
		}
		return r, nil
	}
	return "", status.Error(codes.PermissionDenied, "no access rule for method")
}

func Auth(v Validator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		role, err := roleFor(info.FullMethod, req)
		if err != nil {
			return nil, err
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		raw := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			raw = bearer(vals[0])
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}

		if !v.Validate(ctx, raw, role) {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}

		return next(WithToken(ctx, raw), req)
	}
}

func bearer(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

package handler

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/appointment"
	"clinic-appointments-api/internal/apperr"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/clinic"
	"clinic-appointments-api/internal/middleware"
	"clinic-appointments-api/internal/prescription"
)

type Deps struct {
	Clinic        *clinic.Service
	Appointments  *appointment.Lifecycle
	Availability  *availability.Calculator
	Prescriptions *prescription.Service
	Gate          *auth.Gate
	Log           zerolog.Logger
}

type Handler struct {
	pb.UnimplementedClinicServiceServer
	clinic *clinic.Service
	appts  *appointment.Lifecycle
	slots  *availability.Calculator
	rx     *prescription.Service
	gate   *auth.Gate
	log    zerolog.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		clinic: d.Clinic,
		appts:  d.Appointments,
		slots:  d.Availability,
		rx:     d.Prescriptions,
		gate:   d.Gate,
		log:    d.Log,
	}
}

var codeOf = map[apperr.Kind]codes.Code{
	apperr.KindUnauthorized: codes.Unauthenticated,
	apperr.KindForbidden:    codes.PermissionDenied,
	apperr.KindNotFound:     codes.NotFound,
	apperr.KindValidation:   codes.InvalidArgument,
	apperr.KindConflict:     codes.AlreadyExists,
	apperr.KindInternal:     codes.Internal,
}

// fail maps a service error to a gRPC status. Internal causes are logged
// and never sent to the caller.
func (h *Handler) fail(ctx context.Context, err error) error {
	k := apperr.KindOf(err)
	if k == apperr.KindInternal {
		h.log.Error().Err(err).Str("request_id", middleware.RequestID(ctx)).Msg("internal error")
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(codeOf[k], apperr.Message(err))
}

// owner resolves the id of the account behind the accepted token.
func (h *Handler) owner(ctx context.Context, role auth.Role) (int64, error) {
	id, err := h.gate.ResolveOwnerID(ctx, middleware.TokenFrom(ctx), role)
	if err != nil {
		return 0, h.fail(ctx, err)
	}
	return id, nil
}

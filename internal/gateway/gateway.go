// Package gateway serves the clinic service as JSON over HTTP. Each route
// decodes its request, runs the same interceptor chain the gRPC server
// uses and calls the service in process.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/middleware"
)

const maxBody = 1 << 20

type Pinger interface {
	Ping(ctx context.Context) error
}

type Gateway struct {
	srv    pb.ClinicServiceServer
	chain  grpc.UnaryServerInterceptor
	health Pinger
	reg    prometheus.Gatherer
	log    zerolog.Logger
}

type Option func(*Gateway)

// WithHealth backs /healthz with a store ping.
func WithHealth(p Pinger) Option {
	return func(g *Gateway) { g.health = p }
}

// WithMetrics exposes reg on /metrics.
func WithMetrics(reg prometheus.Gatherer) Option {
	return func(g *Gateway) { g.reg = reg }
}

func New(srv pb.ClinicServiceServer, chain grpc.UnaryServerInterceptor, log zerolog.Logger, opts ...Option) *Gateway {
	g := &Gateway{srv: srv, chain: chain, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

var httpStatus = map[codes.Code]int{
	codes.OK:                http.StatusOK,
	codes.InvalidArgument:   http.StatusBadRequest,
	codes.Unauthenticated:   http.StatusUnauthorized,
	codes.PermissionDenied:  http.StatusForbidden,
	codes.NotFound:          http.StatusNotFound,
	codes.AlreadyExists:     http.StatusConflict,
	codes.ResourceExhausted: http.StatusTooManyRequests,
	codes.Unimplemented:     http.StatusNotImplemented,
	codes.Internal:          http.StatusInternalServerError,
}

func statusOf(c codes.Code) int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	writeJSON(w, statusOf(st.Code()), errorBody{Error: st.Message(), Code: st.Code().String()})
}

// binder fills a request message from the HTTP request.
type binder[Req any] func(r *http.Request, req *Req) error

// route adapts one service method to an HTTP handler.
func route[Req, Resp any](g *Gateway, method string, ok int, bind binder[Req], call func(context.Context, *Req) (*Resp, error)) http.HandlerFunc {
	info := &grpc.UnaryServerInfo{Server: g.srv, FullMethod: pb.FullMethod(method)}
	return func(w http.ResponseWriter, r *http.Request) {
		req := new(Req)
		if bind != nil {
			if err := bind(r, req); err != nil {
				writeError(w, status.Error(codes.InvalidArgument, err.Error()))
				return
			}
		}

		ctx := metadata.NewIncomingContext(r.Context(), incoming(r))
		ctx = middleware.WithClientIP(ctx, remoteHost(r))
		resp, err := g.chain(ctx, req, info, func(ctx context.Context, in any) (any, error) {
			return call(ctx, in.(*Req))
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, ok, resp)
	}
}

// remoteHost is the client address. RealIP has already rewritten
// RemoteAddr from proxy headers.
func remoteHost(r *http.Request) string {
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return h
	}
	return r.RemoteAddr
}

// incoming turns the headers the interceptors read into gRPC metadata.
func incoming(r *http.Request) metadata.MD {
	md := metadata.MD{}
	if v := r.Header.Get("Authorization"); v != "" {
		md.Set("authorization", v)
	}
	if id := chimw.GetReqID(r.Context()); id != "" {
		md.Set("x-request-id", id)
	}
	return md
}

func decodeBody[Req any](r *http.Request, req *Req) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(req)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return errors.New("malformed JSON body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return id, nil
}

// cors lets browser clients call the gateway from another origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
		h.Set("Access-Control-Max-Age", "86400")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) healthz(w http.ResponseWriter, r *http.Request) {
	if g.health != nil {
		if err := g.health.Ping(r.Context()); err != nil {
			g.log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger writes one line per HTTP request.
func (g *Gateway) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		g.log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http")
	})
}

func trimmed(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// Handler builds the router.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, g.requestLogger, chimw.Recoverer, cors)

	r.Get("/healthz", g.healthz)
	if g.reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(g.reg, promhttp.HandlerOpts{}))
	}
	g.routes(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found", Code: codes.NotFound.String()})
	})
	return r
}

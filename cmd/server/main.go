package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	pb "clinic-appointments-api/api/clinic/v1"
	"clinic-appointments-api/internal/appointment"
	"clinic-appointments-api/internal/auth"
	"clinic-appointments-api/internal/availability"
	"clinic-appointments-api/internal/cache"
	"clinic-appointments-api/internal/clinic"
	"clinic-appointments-api/internal/config"
	"clinic-appointments-api/internal/gateway"
	"clinic-appointments-api/internal/handler"
	"clinic-appointments-api/internal/logging"
	"clinic-appointments-api/internal/metrics"
	"clinic-appointments-api/internal/middleware"
	"clinic-appointments-api/internal/model"
	"clinic-appointments-api/internal/prescription"
	"clinic-appointments-api/internal/store"
	"clinic-appointments-api/internal/store/memory"
)

// records is everything the services need from a backing store. Both the
// Postgres and the in-memory store provide it.
type records interface {
	clinic.Directory
	appointment.Records
	prescription.Records
	availability.Bookings
	Doctor(ctx context.Context, id int64) (*model.Doctor, error)
	CreateAdmin(ctx context.Context, a *model.Admin) error
	Identities() auth.Membership
	Ping(ctx context.Context) error
}

func main() {
	root := &cobra.Command{
		Use:           "clinic-server",
		Short:         "Clinic appointment scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), adminCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var adminUser, adminPass string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC server and the HTTP gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, adminUser, adminPass)
		},
	}
	cmd.Flags().StringVar(&adminUser, "admin-username", "", "seed an admin account at startup")
	cmd.Flags().StringVar(&adminPass, "admin-password", "", "password for --admin-username")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	for _, up := range []bool{true, false} {
		use, short := "up", "Apply pending migrations"
		if !up {
			use, short = "down", "Roll back every migration"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(*cobra.Command, []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := store.Migrate(cfg.DatabaseURL, up); err != nil {
					return err
				}
				fmt.Printf("migrate %s: done\n", use)
				return nil
			},
		})
	}
	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	var username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pool, err := pgxpool.New(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer pool.Close()

			if err := seedAdmin(cmd.Context(), store.New(pool), cfg, username, password); err != nil {
				return err
			}
			fmt.Printf("admin %q created\n", username)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "admin username")
	create.Flags().StringVar(&password, "password", "", "admin password")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")
	cmd.AddCommand(create)
	return cmd
}

func seedAdmin(ctx context.Context, st records, cfg *config.Config, username, password string) error {
	pw, err := auth.PasswordsFor(cfg.PasswordScheme)
	if err != nil {
		return err
	}
	hash, err := pw.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := st.CreateAdmin(ctx, &model.Admin{Username: username, Password: hash}); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("admin %q already exists", username)
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (records, func(), error) {
	if cfg.Store == "memory" {
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil
	}

	if cfg.AutoMigrate {
		if err := store.Migrate(cfg.DatabaseURL, true); err != nil {
			return nil, nil, err
		}
		log.Info().Msg("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	log.Info().Msg("connected to postgres")
	return store.New(pool), pool.Close, nil
}

// openRedis returns nil when no cache is configured or Redis is down; the
// doctor cache passes straight through in that case.
func openRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("bad REDIS_URL, doctor cache disabled")
		return nil
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, doctor cache disabled")
		_ = rdb.Close()
		return nil
	}
	log.Info().Msg("connected to redis")
	return rdb
}

func serve(ctx context.Context, cfg *config.Config, adminUser, adminPass string) error {
	log := logging.New(cfg.LogLevel, cfg.IsDev())

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if adminUser != "" {
		if err := seedAdmin(ctx, st, cfg, adminUser, adminPass); err != nil {
			log.Warn().Err(err).Msg("seed admin")
		}
	}

	key, err := auth.NewSigningKey(cfg.JWTSecret)
	if err != nil {
		return err
	}
	pw, err := auth.PasswordsFor(cfg.PasswordScheme)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewClinicMetrics(reg)

	rdb := openRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}
	doctors := cache.NewDoctors(rdb, st, cfg.DoctorCacheTTL, log)

	gate := auth.NewGate(key, st.Identities(), auth.WithLogger(log), auth.WithRejectObserver(m))
	calc := availability.NewCalculator(doctors, st, cfg.Location(), m)
	lc := appointment.New(st, gate, calc,
		appointment.WithLogger(log),
		appointment.WithBookingObserver(m))

	h := handler.New(handler.Deps{
		Clinic:        clinic.New(st, auth.NewIssuer(key), pw, clinic.WithInvalidator(doctors), clinic.WithLogger(log)),
		Appointments:  lc,
		Availability:  calc,
		Prescriptions: prescription.New(st, lc, log),
		Gate:          gate,
		Log:           log,
	})

	interceptors := []grpc.UnaryServerInterceptor{
		middleware.Logging(log, m),
		middleware.RateLimit(middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)),
		middleware.Auth(gate),
	}

	// grpc server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	pb.RegisterClinicServiceServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("grpc listening")
		if err := srv.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc stopped")
		}
	}()

	// http gateway, same chain in process
	gw := gateway.New(h, middleware.Chain(interceptors...), log,
		gateway.WithHealth(st), gateway.WithMetrics(reg))
	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.WebPort).Msg("http gateway listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	srv.GracefulStop()
	return nil
}

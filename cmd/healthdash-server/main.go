package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tobitaks/health-dash-be/internal/config"
	"github.com/tobitaks/health-dash-be/internal/domain/appointment"
	"github.com/tobitaks/health-dash-be/internal/domain/clinic"
	"github.com/tobitaks/health-dash-be/internal/domain/consultation"
	"github.com/tobitaks/health-dash-be/internal/domain/invoice"
	"github.com/tobitaks/health-dash-be/internal/domain/laborder"
	"github.com/tobitaks/health-dash-be/internal/domain/medicine"
	"github.com/tobitaks/health-dash-be/internal/domain/patient"
	"github.com/tobitaks/health-dash-be/internal/domain/prescription"
	"github.com/tobitaks/health-dash-be/internal/domain/staff"
	"github.com/tobitaks/health-dash-be/internal/platform/auth"
	"github.com/tobitaks/health-dash-be/internal/platform/db"
	"github.com/tobitaks/health-dash-be/internal/platform/middleware"
	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/telemetry"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthdash-server",
		Short: "Multi-tenant clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(clinicCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, cfg.MigrationsDir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, cfg.MigrationsDir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

func clinicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinic",
		Short: "Manage clinics",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Onboard a new clinic",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := clinic.NewService(clinic.NewRepo(pool))
			c := &clinic.Clinic{Name: name}
			if email != "" {
				c.Email = &email
			}
			if err := svc.CreateClinic(ctx, c); err != nil {
				return err
			}
			fmt.Printf("Created clinic %q with id %s\n", c.Name, c.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Clinic name")
	createCmd.Flags().String("email", "", "Contact email")
	cmd.AddCommand(createCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Shared platform pieces
	metrics := telemetry.New()

	codes := sequence.NewGenerator(sequence.NewStorePG(pool))
	codes.SetRecorder(metrics)

	auditor := tenancy.NewAuditor(logger)
	auditor.SetRecorder(metrics)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Public endpoints
	e.GET("/health", db.HealthHandler(pool))
	e.GET("/metrics", metrics.Handler())

	// Auth middleware
	var authMW echo.MiddlewareFunc
	if cfg.ResolvedAuthMode() == "dev" {
		authMW = auth.Dev()
	} else {
		authMW = auth.JWT([]byte(cfg.JWTSecret))
	}

	// Admin surface: tenant-agnostic clinic onboarding, platform operators only.
	adminV1 := e.Group("/admin/v1", authMW, auth.RequireRole(auth.RolePlatformAdmin))
	clinicSvc := clinic.NewService(clinic.NewRepo(pool))
	clinic.NewHandler(clinicSvc).RegisterRoutes(adminV1)

	// Tenant surface: every route runs under a resolved clinic scope.
	apiV1 := e.Group("/api/v1", authMW, tenancy.Middleware(), middleware.Audit(logger))

	patientSvc := patient.NewService(patient.NewRepo(pool), codes)
	patientSvc.SetAuditor(auditor)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	staffSvc := staff.NewService(staff.NewRepo(pool))
	staffSvc.SetAuditor(auditor)
	staff.NewHandler(staffSvc).RegisterRoutes(apiV1)

	apptSvc := appointment.NewService(appointment.NewRepo(pool), codes)
	apptSvc.SetAuditor(auditor)
	appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

	consultSvc := consultation.NewService(consultation.NewRepo(pool), codes)
	consultSvc.SetAuditor(auditor)
	consultation.NewHandler(consultSvc).RegisterRoutes(apiV1)

	medicineSvc := medicine.NewService(medicine.NewRepo(pool))
	medicineSvc.SetAuditor(auditor)
	medicine.NewHandler(medicineSvc).RegisterRoutes(apiV1)

	rxSvc := prescription.NewService(prescription.NewRepo(pool), codes)
	rxSvc.SetAuditor(auditor)
	prescription.NewHandler(rxSvc).RegisterRoutes(apiV1)

	labSvc := laborder.NewService(laborder.NewRepo(pool), codes)
	labSvc.SetAuditor(auditor)
	laborder.NewHandler(labSvc).RegisterRoutes(apiV1)

	invoiceSvc := invoice.NewService(invoice.NewRepo(pool), codes)
	invoiceSvc.SetAuditor(auditor)
	invoice.NewHandler(invoiceSvc).RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/care-console/internal/config"
	"github.com/jwalitptl/care-console/internal/handler"
	appointmentHandler "github.com/jwalitptl/care-console/internal/handler/appointment"
	doctorHandler "github.com/jwalitptl/care-console/internal/handler/doctor"
	"github.com/jwalitptl/care-console/internal/handler/health"
	patientHandler "github.com/jwalitptl/care-console/internal/handler/patient"
	promHandler "github.com/jwalitptl/care-console/internal/handler/prometheus"
	specialtyHandler "github.com/jwalitptl/care-console/internal/handler/specialty"
	"github.com/jwalitptl/care-console/internal/repository"
	"github.com/jwalitptl/care-console/internal/repository/rest"
	"github.com/jwalitptl/care-console/internal/router"
	"github.com/jwalitptl/care-console/internal/session"
	"github.com/jwalitptl/care-console/internal/worker"
	"github.com/jwalitptl/care-console/pkg/event"
	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/messaging"
	"github.com/jwalitptl/care-console/pkg/messaging/redis"
	"github.com/jwalitptl/care-console/pkg/metrics"
	"github.com/jwalitptl/care-console/pkg/validator"
)

func newServeCmd(v *viper.Viper, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLogger, err := setup(v, *configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, appLogger)
		},
	}
	cmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	_ = v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(parent context.Context, cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry, "console")

	client := rest.NewClient(rest.Config{
		BaseURL:         cfg.Backend.BaseURL,
		Timeout:         cfg.Backend.Timeout,
		BreakerFailures: cfg.Backend.BreakerFailures,
		BreakerCooldown: cfg.Backend.BreakerCooldown,
	}, m)

	var broker messaging.Broker = messaging.NopBroker{}
	if cfg.Redis.URL != "" {
		b, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL, MaxRetries: 2, RetryBackoff: 100 * time.Millisecond}, appLogger)
		if err != nil {
			return err
		}
		defer b.Close()
		broker = b
	}
	return run(ctx, cfg, appLogger, registry, m, client, broker)
}

func run(ctx context.Context, cfg *config.Config, appLogger *logger.Logger, registry *prometheus.Registry, m *metrics.Metrics, client *rest.Client, broker messaging.Broker) error {
	var appointments repository.AppointmentRepository
	if cfg.Appointments.Source == config.SourceBackend {
		appointments = rest.NewAppointmentRepository(client)
	}

	sessions := session.NewStore(session.Config{TTL: cfg.Session.TTL}, session.Deps{
		Appointments: appointments,
		Patients:     rest.NewPatientRepository(client),
		Doctors:      rest.NewDoctorRepository(client),
		Specialties:  rest.NewSpecialtyRepository(client),
		Validator:    validator.New(),
		Logger:       appLogger,
		Events:       event.NewService(broker, appLogger, m),
		Now:          time.Now,
	}, m)

	probe := worker.NewBackendProbeWorker(client, cfg.Probe.Schedule, cfg.Backend.Timeout, appLogger, m)
	if err := probe.Start(ctx); err != nil {
		return err
	}

	r, err := router.NewRouter(router.Handlers{
		Pages:        handler.NewHandler(),
		Health:       health.NewHandler(probe),
		Metrics:      promHandler.New(registry).Handler(),
		Appointments: appointmentHandler.NewHandler(),
		Patients:     patientHandler.NewHandler(),
		Doctors:      doctorHandler.NewHandler(),
		Specialties:  specialtyHandler.NewHandler(),
	}, sessions, m, router.RouterConfig{
		RateLimit:      rate.Limit(cfg.RateLimit.RPS),
		RateBurst:      cfg.RateLimit.Burst,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		CookieName:     cfg.Session.CookieName,
		SecureCookie:   cfg.Session.SecureCookie,
	})
	if err != nil {
		return err
	}
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("console listening", "addr", srv.Addr, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info("server exited properly")
	return nil
}

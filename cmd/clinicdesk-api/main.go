package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/config"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	v1 "github.com/clinicdesk/clinicdesk-api/internal/handler/v1"
	"github.com/clinicdesk/clinicdesk-api/internal/notification"
	"github.com/clinicdesk/clinicdesk-api/internal/repository"
	"github.com/clinicdesk/clinicdesk-api/internal/service"
	"github.com/clinicdesk/clinicdesk-api/pkg/auth"
	"github.com/clinicdesk/clinicdesk-api/pkg/database"
	"github.com/clinicdesk/clinicdesk-api/pkg/logger"
	"github.com/clinicdesk/clinicdesk-api/pkg/metrics"
	"github.com/clinicdesk/clinicdesk-api/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			log.Error("failed to initialize tracer", zap.Error(err))
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					log.Warn("tracer shutdown", zap.Error(err))
				}
			}()
		}
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		return err
	}

	collector := metrics.NewCollector("clinicdesk")

	doctorRepo := repository.NewDoctorRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log)

	var sender notification.Sender = notification.NopSender{}
	if cfg.Notify.Enabled {
		sender = notification.NewHTTPGateway(cfg.Notify)
	}
	dispatcher := notification.NewDispatcher(sender, log, func() {
		collector.NotifyFailuresTotal.Inc()
	})

	midday, err := schedule.ParseTimeOfDay(cfg.Scheduling.MiddayBoundary)
	if err != nil {
		log.Error("invalid midday boundary", zap.Error(err))
		return err
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)

	availabilitySvc := service.NewAvailabilityService(doctorRepo, scheduleRepo, apptRepo, midday, collector, log)
	svcs := v1.Services{
		Auth:         service.NewAuthService(userRepo, jwtManager, log),
		Doctor:       service.NewDoctorService(doctorRepo, auditSvc, cfg.Scheduling.SlotDurationMins, log),
		Schedule:     service.NewScheduleService(scheduleRepo, doctorRepo, auditSvc, dispatcher, collector, log),
		Availability: availabilitySvc,
		Booking:      service.NewBookingService(apptRepo, availabilitySvc, auditSvc, dispatcher, collector, log),
	}

	router := v1.NewRouter(cfg, svcs, jwtManager, collector, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	// Drain async workers after the listener stops accepting requests.
	auditSvc.Shutdown()
	dispatcher.Shutdown()

	log.Info("stopped")
	return nil
}

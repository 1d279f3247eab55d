package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayushpatil0810/carebridge/internal/config"
	v1 "github.com/ayushpatil0810/carebridge/internal/handler/v1"
	"github.com/ayushpatil0810/carebridge/internal/repository/postgres"
	"github.com/ayushpatil0810/carebridge/internal/service"
	"github.com/ayushpatil0810/carebridge/pkg/assist"
	"github.com/ayushpatil0810/carebridge/pkg/auth"
	"github.com/ayushpatil0810/carebridge/pkg/database"
	"github.com/ayushpatil0810/carebridge/pkg/logger"
	"github.com/ayushpatil0810/carebridge/pkg/metrics"
	"github.com/ayushpatil0810/carebridge/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("carebridge")
	if sqlDB, err := db.DB(); err == nil {
		collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	caseRepo := postgres.NewCaseRepository(db, log)
	auditRepo := postgres.NewAuditRepository(db)

	jwtManager := auth.NewJWTManager(cfg.JWT)

	auditSvc := service.NewAuditService(auditRepo, log, collector.AuditEntriesTotal, collector.AuditBufferDropped)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, log)
	caseSvc := service.NewCaseService(caseRepo, patientRepo, auditSvc, log)
	assistSvc := buildAssistService(cfg.Assist, log)

	router := v1.NewRouter(
		v1.NewAuthHandler(authSvc, log),
		v1.NewPatientHandler(patientSvc, log),
		v1.NewCaseHandler(caseSvc, patientSvc, assistSvc, collector, log),
		jwtManager,
		collector,
		log,
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	router.Register(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("stopped cleanly")
	return nil
}

// buildAssistService wires the external collaborators only when their URLs are
// configured; an unset URL leaves that collaborator nil and the service falls
// back to its deterministic template path.
func buildAssistService(cfg config.AssistConfig, log *zap.Logger) *service.AssistService {
	var (
		transcriber service.Transcriber
		drafter     service.SummaryDrafter
		relay       service.MessagingRelay
	)
	if cfg.SpeechServiceURL != "" {
		transcriber = assist.NewSpeechClient(cfg.SpeechServiceURL)
	}
	if cfg.SummaryServiceURL != "" {
		drafter = assist.NewSummaryClient(cfg.SummaryServiceURL)
	}
	if cfg.RelayURL != "" {
		relay = assist.NewRelayClient(cfg.RelayURL)
	}
	return service.NewAssistService(transcriber, drafter, relay, cfg.Timeout, log)
}

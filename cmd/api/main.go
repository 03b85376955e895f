package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	ledgerService "github.com/cmlabs-hris/hris-payroll-go/internal/service/ledger"
	notificationService "github.com/cmlabs-hris/hris-payroll-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	scheduleService "github.com/cmlabs-hris/hris-payroll-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	defaults, err := cfg.Policy.ScheduleDefaults()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy.PayrollPolicy()
	if err != nil {
		return err
	}

	txManager := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	assignmentRepo := postgresql.NewEmployeeScheduleAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	notifier := notificationService.NewNotificationService(notificationRepo, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
		QueueSize:     cfg.Notification.QueueSize,
	}, logger)
	defer notifier.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := scheduleService.NewScheduleResolver(assignmentRepo, defaults)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		leaveRequestRepo,
		resolver,
		notifier,
		logger,
	)
	ledgerSvc := ledgerService.NewLedgerService(ledgerRepo, employeeRepo, notifier, logger)
	payrollSvc, err := payrollService.NewPayrollService(
		txManager,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		ledgerSvc,
		notifier,
		policy,
		defaults.Location,
		logger,
	)
	if err != nil {
		return err
	}

	router := appHTTP.NewRouter(logger, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Ledger:     appHTTP.NewLedgerHandler(ledgerSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Schedule:   appHTTP.NewScheduleHandler(resolver),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

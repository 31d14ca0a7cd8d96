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

	"github.com/cmlabs-hris/fleet-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/repository/postgresql"
	advanceService "github.com/cmlabs-hris/fleet-payroll-go/internal/service/advance"
	payrollService "github.com/cmlabs-hris/fleet-payroll-go/internal/service/payroll"
	shiftService "github.com/cmlabs-hris/fleet-payroll-go/internal/service/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/service/worktime"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		logger.Info("Using redis driver lock", "addr", cfg.Redis.Addr)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers)
		logger.Info("Publishing domain events to kafka", "brokers", cfg.Kafka.Brokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	location := cfg.Location()
	classifier := worktime.NewClassifier(worktime.Window{
		Start:    cfg.Work.StandardStart,
		End:      cfg.Work.StandardEnd,
		Location: location,
	})

	transactor := postgresql.NewTransactor(db)
	driverRepo := postgresql.NewDriverRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	shiftAuditRepo := postgresql.NewShiftAuditRepository(db)
	payrollConfigRepo := postgresql.NewPayrollConfigRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	advanceConfigRepo := postgresql.NewAdvanceConfigRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration.String())
	if err != nil {
		return err
	}

	shiftSvc := shiftService.NewShiftService(
		transactor,
		shiftRepo,
		shiftAuditRepo,
		driverRepo,
		locker,
		publisher,
		classifier,
		logger,
	)
	payrollSvc := payrollService.NewPayrollService(
		driverRepo,
		shiftRepo,
		payrollConfigRepo,
		leaveRepo,
		advanceRepo,
		classifier,
		logger,
	)
	advanceSvc := advanceService.NewAdvanceService(
		transactor,
		advanceRepo,
		advanceConfigRepo,
		payrollConfigRepo,
		shiftRepo,
		locker,
		publisher,
		classifier,
		logger,
		cfg.Work.AssumedWorkingDays,
	)

	scheduler := cron.NewScheduler(ctx, logger)
	cron.NewShiftJobs(shiftRepo, logger, cfg.Watchdog.Interval, cfg.Watchdog.MaxOpenShift).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		logger,
		JWTService,
		middleware.NewDriverRateLimiter(cfg.RateLimit.ClockRequestsPerMinute, cfg.RateLimit.Burst),
		appHTTP.NewShiftHandler(shiftSvc, location),
		appHTTP.NewPayrollHandler(payrollSvc, location),
		appHTTP.NewAdvanceHandler(advanceSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

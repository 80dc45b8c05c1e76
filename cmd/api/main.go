package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/hris-attendance-go/internal/service/audit"
	employeeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/employee"
	requestService "github.com/cmlabs-hris/hris-attendance-go/internal/service/request"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	tx          database.TxManager
	employees   employee.EmployeeRepository
	attendances attendance.AttendanceRepository
	requests    request.RequestRepository
	audits      audit.AuditRepository
	close       func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &repositories{
			tx:          store,
			employees:   sqlite.NewEmployeeRepository(store),
			attendances: sqlite.NewAttendanceRepository(store),
			requests:    sqlite.NewRequestRepository(store),
			audits:      sqlite.NewAuditRepository(store),
			close:       func() { store.Close() },
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, err
		}
		return &repositories{
			tx:          postgresql.NewTransactionManager(db.Pool),
			employees:   postgresql.NewEmployeeRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			requests:    postgresql.NewRequestRepository(db),
			audits:      postgresql.NewAuditRepository(db),
			close:       db.Close,
		}, nil
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})).With(slog.String("app", cfg.App.Name)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer repos.close()

	shift, err := cfg.Shift.WorkShift()
	if err != nil {
		log.Fatal("Invalid shift: ", err)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	clk := clock.New()
	locks := keylock.New()

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.tx,
		repos.attendances,
		repos.employees,
		repos.requests,
		repos.audits,
		locks,
		clk,
		attendanceService.Options{Shift: shift, StaleGrace: cfg.Reconciliation.StaleGrace},
	)
	requestSvc := requestService.NewRequestService(
		repos.tx,
		repos.requests,
		repos.employees,
		repos.attendances,
		repos.audits,
		locks,
		clk,
		requestService.Options{MaxAttempts: cfg.Approval.MaxAttempts, RetryBackoff: cfg.Approval.RetryBackoff},
	)
	employeeSvc := employeeService.NewEmployeeService(repos.employees)
	auditSvc := auditService.NewAuditService(repos.audits, repos.employees)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		middleware.NewAuthorityMiddleware(repos.employees),
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Request:    appHTTP.NewRequestHandler(requestSvc),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Audit:      appHTTP.NewAuditHandler(auditSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Reconciliation.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceSvc, clk, shift, cfg.Reconciliation.Interval).RegisterJobs(scheduler)
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

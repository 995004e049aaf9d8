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

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/attendance-engine/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/policyfile"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/attendance-engine/internal/service/leave"
	policyService "github.com/cmlabs-hris/attendance-engine/internal/service/policy"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	loc := cfg.Location()
	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	compOffRepo := postgresql.NewCompOffRepository(db)

	policyRepo, err := policySource(ctx, cfg, postgresql.NewPolicyRepository(db))
	if err != nil {
		return err
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	finalRole := user.NormalizeRole(cfg.Leave.FinalConfirmationRole)

	loader := reportService.NewLoader(userRepo, eventRepo, leaveRequestRepo, policyRepo, compOffRepo, loc)
	reportSvc := reportService.NewReportService(loader)
	attendanceSvc := attendanceService.NewAttendanceService(eventRepo, userRepo, loader)
	leaveSvc := leaveService.NewLeaveService(txManager, leaveRequestRepo, balanceRepo, userRepo, policyRepo, fileStorage, finalRole)
	policySvc := policyService.NewPolicyService(policyRepo)

	scheduler := cron.NewScheduler()
	cron.NewSnapshotJobs(reportSvc, loc).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        "attendance-engine",
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		FinalRole:      finalRole,
		UploadsDir:     cfg.Storage.BasePath,
	}, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Report:     appHTTP.NewReportHandler(reportSvc, loc),
		Policy:     appHTTP.NewPolicyHandler(policySvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String(), "policy_source", cfg.Policy.Source)
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

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// policySource returns the policy repository selected by POLICY_SOURCE. A file
// source is read-only and reloads on SIGHUP.
func policySource(ctx context.Context, cfg *config.Config, dbRepo policy.Repository) (policy.Repository, error) {
	if cfg.Policy.SeedOnStart {
		set, holidays, err := policyfile.Load(cfg.Policy.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load policy file: %w", err)
		}
		created, err := policyfile.Seed(ctx, dbRepo, set, holidays)
		if err != nil {
			return nil, fmt.Errorf("failed to seed policies: %w", err)
		}
		slog.Info("Policies seeded from file", "file", cfg.Policy.FilePath, "holidays_created", created)
	}

	if cfg.Policy.Source != "file" {
		return dbRepo, nil
	}

	store, err := policyfile.NewStore(cfg.Policy.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy file: %w", err)
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := store.Reload(); err != nil {
					slog.Error("Policy reload failed, keeping previous policies", "file", cfg.Policy.FilePath, "error", err)
					continue
				}
				slog.Info("Policies reloaded", "file", cfg.Policy.FilePath)
			}
		}
	}()
	return store, nil
}

package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from the app config.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// FinalRole may list and confirm every leave request.
	FinalRole user.Role
	// UploadsDir is served under /uploads when set.
	UploadsDir string
}

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Report     ReportHandler
	Policy     PolicyHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	hr := cfg.FinalRole
	if hr == "" {
		hr = user.RoleHR
	}
	administrators := middleware.RequireRoles(user.RoleAdmin, hr)
	reporters := middleware.RequireRoles(user.RoleAdmin, hr, user.RoleHR, user.RoleFinance, user.RoleManager, user.RoleSupervisor)

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.ClockIn)
				r.Post("/check-out", h.Attendance.ClockOut)
				r.Get("/me/status", h.Attendance.GetMyStatus)

				r.With(administrators).Post("/import", h.Attendance.Import)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", h.Leave.CreateRequest)
					r.With(administrators).Get("/", h.Leave.ListRequests)
					r.Get("/me", h.Leave.GetMyRequests)
					r.Get("/pending", h.Leave.GetPendingRequests)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", h.Leave.GetRequest)
						r.Post("/manager-decision", h.Leave.ManagerDecision)
						r.Post("/final-decision", h.Leave.FinalDecision)
					})
				})
				r.Get("/balances/me", h.Leave.GetMyBalances)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(reporters)
				r.Get("/dashboard", h.Report.GetDashboard)
				r.Get("/basic", h.Report.GetBasicReport)
				r.Get("/basic.csv", h.Report.GetBasicReportCSV)
				r.Get("/muster", h.Report.GetMuster)
				r.Get("/muster.xlsx", h.Report.GetMusterXLSX)
				r.Get("/events", h.Report.GetEventLog)
				r.Get("/events.csv", h.Report.GetEventLogCSV)
			})

			r.Get("/policies", h.Policy.GetPolicies)
			r.Get("/holidays", h.Policy.ListHolidays)

			// Admin and HR only
			r.Group(func(r chi.Router) {
				r.Use(administrators)
				r.Put("/policies/{staff_type}", h.Policy.UpdatePolicy)
				r.Post("/holidays", h.Policy.CreateHoliday)
				r.Delete("/holidays/{staff_type}/{date}", h.Policy.DeleteHoliday)
			})
		})
	})
	return r
}

package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
}

type Handlers struct {
	Attendance AttendanceHandler
	Request    RequestHandler
	Employee   EmployeeHandler
	Audit      AuditHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, authority *middleware.AuthorityMiddleware, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
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
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/today", h.Attendance.GetToday)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/break", h.Attendance.TakeBreak)
				r.Post("/resume", h.Attendance.Resume)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/", h.Attendance.List)
				r.Get("/summary", h.Attendance.Summary)

				// Scheduled jobs, runnable on demand
				r.Group(func(r chi.Router) {
					r.Use(authority.RequireAuthority(employee.AuthorityRunReconciliation))
					r.Post("/reconcile", h.Attendance.Reconcile)
					r.Post("/auto-close", h.Attendance.AutoClose)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", h.Request.Submit)
				r.Get("/my", h.Request.ListMine)
				r.Get("/pending", h.Request.ListPending)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Request.Get)
					r.Post("/approve", h.Request.Approve)
					r.Post("/reject", h.Request.Reject)
					r.Post("/revoke", h.Request.Revoke)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Post("/", h.Employee.Create)
				r.Get("/{id}", h.Employee.Get)
				r.Get("/{id}/balance", h.Employee.GetBalance)
			})

			r.Get("/audit/{entityType}/{entityID}", h.Audit.ListTrail)
		})
	})
	return r
}

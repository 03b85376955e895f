package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Attendance AttendanceHandler
	Ledger     LedgerHandler
	Payroll    PayrollHandler
	Schedule   ScheduleHandler
}

func NewRouter(logger *slog.Logger, opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
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

			r.Route("/schedules", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionScheduleView)).
					Get("/expected", h.Schedule.GetExpectedSchedule)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceRecord))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
					r.Post("/commands", h.Attendance.Command)
					r.Post("/absent", h.Attendance.MarkAbsent)
					r.Route("/corrections", func(r chi.Router) {
						r.Post("/latency", h.Attendance.AddLatency)
						r.Post("/early-departure", h.Attendance.AddEarlyDeparture)
						r.Post("/break", h.Attendance.AddBreak)
					})
					r.Delete("/employees/{employeeID}/{date}", h.Attendance.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceView))
					r.Get("/employees/{employeeID}", h.Attendance.List)
					r.Get("/employees/{employeeID}/summary", h.Attendance.Summary)
					r.Get("/employees/{employeeID}/{date}", h.Attendance.Get)
					r.Get("/employees/{employeeID}/{date}/leave-override", h.Attendance.LeaveOverride)
				})
			})

			r.Route("/ledger/entries", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLedgerView))
					r.Get("/", h.Ledger.List)
					r.Get("/{id}", h.Ledger.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLedgerManage))
					r.Post("/", h.Ledger.Create)
					r.Put("/{id}", h.Ledger.Update)
					r.Delete("/{id}", h.Ledger.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).
					Post("/generate", h.Payroll.GeneratePayroll)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/summary", h.Payroll.GetPayrollSummary)
					r.Get("/records", h.Payroll.ListPayrollRecords)
					r.Get("/records/{id}", h.Payroll.GetPayrollRecord)
				})

				r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).
					Post("/records/{id}/approve", h.Payroll.ApprovePayroll)
				r.With(middleware.RequirePermission(user.PermissionPayrollPay)).
					Post("/records/{id}/pay", h.Payroll.MarkPayrollPaid)
			})
		})
	})
	return r
}

package http

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger builds the process logger: JSON on stdout in the ECS schema used
// by the request logger.
func NewLogger(env, level string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fleet-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func NewRouter(
	logger *slog.Logger,
	JWTService jwt.Service,
	clockLimiter *middleware.DriverRateLimiter,
	shiftHandler ShiftHandler,
	payrollHandler PayrollHandler,
	advanceHandler AdvanceHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
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

			// Driver self-service
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireDriver)

				r.Route("/shifts", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(auth.PermissionShiftClock))
						r.Use(clockLimiter.Middleware)
						r.Post("/clock-in", shiftHandler.ClockIn)
						r.Post("/clock-out", shiftHandler.ClockOut)
					})
					r.With(middleware.RequirePermission(auth.PermissionShiftViewOwn)).Get("/status", shiftHandler.GetMyStatus)
					r.With(middleware.RequirePermission(auth.PermissionShiftViewOwn)).Get("/my", shiftHandler.ListMyShifts)
				})

				r.With(middleware.RequirePermission(auth.PermissionPayrollViewOwn)).Get("/payroll/my", payrollHandler.GetMyPayroll)

				r.Route("/advances", func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionAdvanceRequest))
					r.Get("/eligibility", advanceHandler.GetMyEligibility)
					r.Post("/", advanceHandler.RequestAdvance)
					r.Get("/my", advanceHandler.ListMyAdvances)
				})
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.With(middleware.RequirePermission(auth.PermissionShiftManage)).Put("/shifts/{id}", shiftHandler.UpdateShift)

				r.Route("/payroll", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(auth.PermissionPayrollConfigure))
						r.Get("/config", payrollHandler.GetCurrentConfig)
						r.Post("/config", payrollHandler.CreateConfig)
						r.Get("/config/history", payrollHandler.ListConfigHistory)
					})
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(auth.PermissionPayrollViewAll))
						r.Get("/", payrollHandler.GetAllDriversPayroll)
						r.Get("/drivers/{id}", payrollHandler.GetDriverPayroll)
					})
				})

				r.Route("/advances", func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionAdvanceApprove))
					r.Get("/config", advanceHandler.GetConfig)
					r.Put("/config", advanceHandler.UpdateConfig)
					r.Post("/{id}/approve", advanceHandler.Approve)
					r.Post("/{id}/reject", advanceHandler.Reject)
					r.Post("/{id}/pay", advanceHandler.MarkPaid)
					r.Post("/{id}/settle", advanceHandler.Settle)
				})
			})
		})
	})

	return r
}

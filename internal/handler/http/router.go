package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/handler/http/middleware"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	approvalHandler ApprovalHandler,
	statsHandler StatsHandler,
	reportHandler ReportHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "kintrack"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
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

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out/{id}", attendanceHandler.ClockOut)
				r.Post("/break-start/{id}", attendanceHandler.StartBreak)
				r.Post("/break-end/{breakId}", attendanceHandler.EndBreak)
				r.Get("/today", attendanceHandler.TodayStatus)
				r.Get("/", attendanceHandler.List)
				r.Get("/{id}", attendanceHandler.Get)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/monthly/{year}/{month}", statsHandler.MonthlyStats)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/company/{year}/{month}", statsHandler.CompanyStats)
				})
			})

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Route("/approvals", func(r chi.Router) {
					r.Get("/pending", approvalHandler.ListPending)
					r.Post("/approve/{id}", approvalHandler.Approve)
					r.Post("/reject/{id}", approvalHandler.Reject)
					r.Post("/bulk", approvalHandler.Bulk)
					r.Post("/member/{memberUserId}", approvalHandler.BulkByMember)
					r.Get("/projects/{year}/{month}", approvalHandler.ProjectSummaries)
				})

				r.Get("/reports/projects/{projectId}/{year}/{month}", reportHandler.ExportProject)
			})

			r.Get("/reports/members/{memberUserId}/{year}/{month}", reportHandler.ExportMember)
		})
	})

	return r
}

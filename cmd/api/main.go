package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kintrack-hq/kintrack-backend-go/internal/config"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/report"
	appHTTP "github.com/kintrack-hq/kintrack-backend-go/internal/handler/http"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/database"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/export"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/jwt"
	"github.com/kintrack-hq/kintrack-backend-go/internal/repository/postgresql"
	approvalService "github.com/kintrack-hq/kintrack-backend-go/internal/service/approval"
	reportService "github.com/kintrack-hq/kintrack-backend-go/internal/service/report"
	statsService "github.com/kintrack-hq/kintrack-backend-go/internal/service/stats"
	timeentryService "github.com/kintrack-hq/kintrack-backend-go/internal/service/timeentry"
	worksettingsService "github.com/kintrack-hq/kintrack-backend-go/internal/service/worksettings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "kintrack"),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	workSettingsRepo := postgresql.NewWorkSettingsRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	resolver := worksettingsService.NewResolver(workSettingsRepo, logger)
	timeEntrySvc := timeentryService.NewTimeEntryService(timeEntryRepo, breakRepo, resolver, txManager, logger, location)
	statsSvc := statsService.NewStatsService(timeEntryRepo, userRepo, resolver, location)
	approvalSvc := approvalService.NewApprovalService(timeEntryRepo, approvalRepo, resolver, logger, location)
	reportSvc := reportService.NewReportService(
		timeEntryRepo,
		userRepo,
		projectRepo,
		statsSvc,
		resolver,
		map[string]report.Renderer{
			report.FormatXLSX: export.NewXLSXRenderer(),
			report.FormatPDF:  export.NewPDFRenderer(),
		},
		logger,
		location,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(timeEntrySvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	statsHandler := appHTTP.NewStatsHandler(statsSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		approvalHandler,
		statsHandler,
		reportHandler,
		cfg.App.AllowedOrigins,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("server starting", slog.String("addr", addr), slog.String("env", cfg.App.Env))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
	}
}

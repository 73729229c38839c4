package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/report"
	"github.com/kintrack-hq/kintrack-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ExportMember(w http.ResponseWriter, r *http.Request)
	ExportProject(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func exportFormat(r *http.Request) string {
	if v := r.URL.Query().Get("format"); v != "" {
		return v
	}
	return report.FormatXLSX
}

// ExportMember implements ReportHandler.
func (h *reportHandlerImpl) ExportMember(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}
	memberUserID := chi.URLParam(r, "memberUserId")

	artifact, err := h.reportService.ExportMember(r.Context(), actor, memberUserID, year, month, exportFormat(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Binary(w, artifact.Filename, artifact.ContentType, artifact.Data)
}

// ExportProject implements ReportHandler.
func (h *reportHandlerImpl) ExportProject(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "projectId")

	artifact, err := h.reportService.ExportProject(r.Context(), actor, projectID, year, month, exportFormat(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Binary(w, artifact.Filename, artifact.ContentType, artifact.Data)
}

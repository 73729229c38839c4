package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/stats"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/user"
	"github.com/kintrack-hq/kintrack-backend-go/internal/handler/http/response"
	"github.com/kintrack-hq/kintrack-backend-go/internal/pkg/validator"
)

type StatsHandler interface {
	MonthlyStats(w http.ResponseWriter, r *http.Request)
	CompanyStats(w http.ResponseWriter, r *http.Request)
}

type statsHandlerImpl struct {
	statsService stats.StatsService
}

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &statsHandlerImpl{
		statsService: statsService,
	}
}

// parsePeriod reads the {year}/{month} path params shared by the monthly
// surfaces. Writes the error response itself when the period is invalid.
func parsePeriod(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil || !validator.IsValidYearMonth(year, month) {
		response.BadRequest(w, "Invalid year/month period", nil)
		return 0, 0, false
	}
	return year, month, true
}

// MonthlyStats implements StatsHandler. Without a user_id query param the
// caller's own month is returned; managers may target any member.
func (h *statsHandlerImpl) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	targetUserID := actor.UserID
	if v := r.URL.Query().Get("user_id"); v != "" {
		targetUserID = v
	}

	result, err := h.statsService.MonthlyStats(r.Context(), user.ScopeFor(actor), targetUserID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CompanyStats implements StatsHandler.
func (h *statsHandlerImpl) CompanyStats(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.statsService.CompanyStats(r.Context(), user.ScopeFor(actor), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

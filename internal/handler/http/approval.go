package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kintrack-hq/kintrack-backend-go/internal/domain/approval"
	"github.com/kintrack-hq/kintrack-backend-go/internal/handler/http/response"
)

type ApprovalHandler interface {
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Bulk(w http.ResponseWriter, r *http.Request)
	BulkByMember(w http.ResponseWriter, r *http.Request)
	ProjectSummaries(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approval.ApprovalService
}

func NewApprovalHandler(approvalService approval.ApprovalService) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

// ListPending implements ApprovalHandler.
func (h *approvalHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	q := r.URL.Query()
	filter := approval.PendingFilter{}
	if v := q.Get("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	for key, dst := range map[string]**string{
		"status":     &filter.Status,
		"project_id": &filter.ProjectID,
		"user_name":  &filter.UserName,
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		if v := q.Get(key); v != "" {
			value := v
			*dst = &value
		}
	}

	result, err := h.approvalService.ListPending(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Approve implements ApprovalHandler.
func (h *approvalHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	entryID := chi.URLParam(r, "id")

	result, err := h.approvalService.Approve(r.Context(), actor, entryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry approved", result)
}

// Reject implements ApprovalHandler.
func (h *approvalHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	entryID := chi.URLParam(r, "id")

	var req approval.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.approvalService.Reject(r.Context(), actor, entryID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry rejected", result)
}

// Bulk implements ApprovalHandler.
func (h *approvalHandlerImpl) Bulk(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req approval.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.approvalService.Bulk(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bulk approval processed", result)
}

// BulkByMember implements ApprovalHandler.
func (h *approvalHandlerImpl) BulkByMember(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	memberUserID := chi.URLParam(r, "memberUserId")

	var req approval.MemberBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.approvalService.BulkByMember(r.Context(), actor, memberUserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Member month processed", result)
}

// ProjectSummaries implements ApprovalHandler.
func (h *approvalHandlerImpl) ProjectSummaries(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year, month, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.approvalService.ProjectSummaries(r.Context(), actor, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/usecase"
	"go-medical-scheduling/pkg/response"
	"go-medical-scheduling/pkg/validator"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, "Audit log not found")
			return
		}
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs accepts ?action= (prefix, e.g. "booking."), ?page= and ?limit=.
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &dto.AuditLogQuery{Action: q.Get("action")}

	var err error
	if query.Page, err = intParam(q.Get("page")); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid page", nil)
		return
	}
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
		return
	}
	if err := h.validator.Validate(query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs.Logs, &response.Meta{
		Page:       auditLogs.Page,
		Limit:      auditLogs.Limit,
		Total:      auditLogs.Total,
		TotalPages: auditLogs.TotalPages,
	})
}

// intParam parses an optional integer query parameter; empty means zero.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

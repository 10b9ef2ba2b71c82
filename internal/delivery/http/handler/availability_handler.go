package handler

import (
	"encoding/json"
	"net/http"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/usecase"
	"go-medical-scheduling/pkg/response"
	"go-medical-scheduling/pkg/validator"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *AvailabilityHandler) GetAvailabilities(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	list, err := h.availabilityUsecase.GetAvailabilities(r.Context(), scheduleID)
	if err != nil {
		writeScheduleError(w, err, "Failed to get availabilities")
		return
	}

	response.Success(w, http.StatusOK, "Availabilities retrieved successfully", list)
}

// UpsertAvailability replaces the hours of /schedules/{id}/availabilities/{date}.
func (h *AvailabilityHandler) UpsertAvailability(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpsertAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.availabilityUsecase.UpsertAvailability(r.Context(), scheduleID, mux.Vars(r)["date"], &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to save availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability saved successfully", result)
}

func (h *AvailabilityHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.availabilityUsecase.DeleteAvailability(r.Context(), scheduleID, mux.Vars(r)["date"]); err != nil {
		writeScheduleError(w, err, "Failed to delete availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability deleted successfully", nil)
}

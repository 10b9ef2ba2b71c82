package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
	"go-medical-scheduling/internal/usecase"
	"go-medical-scheduling/pkg/response"
	"go-medical-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to create schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		writeScheduleError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// GetAllSchedules supports ?doctor_id=, ?active_on=YYYY-MM-DD and ?specialization=.
func (h *ScheduleHandler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.ScheduleFilter{Specialization: query.Get("specialization")}

	if v := query.Get("doctor_id"); v != "" {
		doctorID, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid doctor ID", nil)
			return
		}
		filter.DoctorID = &doctorID
	}
	if v := query.Get("active_on"); v != "" {
		day, err := time.Parse(availability.DateLayout, v)
		if err != nil {
			response.BadRequest(w, usecase.ErrInvalidDateFormat.Error(), nil)
			return
		}
		filter.ActiveOn = &day
	}

	schedules, err := h.scheduleUsecase.GetSchedules(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *ScheduleHandler) GetSchedulesByDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	schedules, err := h.scheduleUsecase.GetSchedules(r.Context(), &entity.ScheduleFilter{DoctorID: &doctorID})
	if err != nil {
		response.InternalServerError(w, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), scheduleID, &req)
	if err != nil {
		writeScheduleError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteSchedule(r.Context(), scheduleID); err != nil {
		writeScheduleError(w, err, "Failed to delete schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

func scheduleIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	scheduleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || scheduleID <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return 0, false
	}
	return scheduleID, true
}

// writeScheduleError maps the errors shared by schedule, availability and slot endpoints.
func writeScheduleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrScheduleNotFound):
		response.NotFound(w, "Schedule not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrAvailabilityNotFound):
		response.NotFound(w, "Availability override not found")
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidScheduleRange),
		errors.Is(err, usecase.ErrInvalidRecurrence),
		errors.Is(err, usecase.ErrDoctorIDRequired),
		errors.Is(err, usecase.ErrInvalidIntervals),
		errors.Is(err, usecase.ErrDateOutsideSchedule),
		errors.Is(err, usecase.ErrInvalidSlotQuery),
		errors.Is(err, availability.ErrInvalidRange),
		errors.Is(err, availability.ErrRangeTooLarge):
		response.BadRequest(w, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

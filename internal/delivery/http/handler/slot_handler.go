package handler

import (
	"net/http"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/usecase"
	"go-medical-scheduling/pkg/response"
	"go-medical-scheduling/pkg/validator"
)

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
	validator   *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

// GetSlots serves /schedules/{id}/slots?date=YYYY-MM-DD or ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *SlotHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := scheduleIDFromPath(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	q := dto.SlotQuery{
		Date: query.Get("date"),
		From: query.Get("from"),
		To:   query.Get("to"),
	}
	if err := h.validator.Validate(&q); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.slotUsecase.GetSlots(r.Context(), scheduleID, &q)
	if err != nil {
		writeScheduleError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

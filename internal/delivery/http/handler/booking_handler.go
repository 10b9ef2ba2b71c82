package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/usecase"
	"go-medical-scheduling/pkg/response"
	"go-medical-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.PatientBookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.PatientBookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		var rejected *usecase.BookingRejectedError
		switch {
		case errors.As(err, &rejected):
			writeBookingRejected(w, rejected)
		case errors.Is(err, usecase.ErrScheduleNotFound):
			response.NotFound(w, "Schedule not found")
		case errors.Is(err, usecase.ErrSchedulePast), errors.Is(err, usecase.ErrInvalidDateTimeFormat):
			response.BadRequest(w, err.Error(), nil)
		case errors.Is(err, usecase.ErrPatientProfileMissing):
			response.UnprocessableEntity(w, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := h.bookingUsecase.CancelBooking(r.Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, usecase.ErrBookingNotOwned):
			response.Forbidden(w, "Booking does not belong to you")
		case errors.Is(err, usecase.ErrBookingAlreadyCancelled):
			response.Conflict(w, "Booking is already cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", nil)
}

// writeBookingRejected answers 409 when the slot is taken and 422 for every other reason.
func writeBookingRejected(w http.ResponseWriter, rejected *usecase.BookingRejectedError) {
	body := dto.BookingRejectedResponse{Reason: string(rejected.Reason)}
	if rejected.Reason == availability.ReasonAlreadyBooked {
		response.Conflict(w, rejected.Error(), body)
		return
	}
	response.UnprocessableEntity(w, rejected.Error(), body)
}

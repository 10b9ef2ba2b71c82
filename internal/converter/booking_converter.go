package converter

import (
	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                booking.ID,
		PatientID:         booking.PatientID,
		ScheduleID:        booking.ScheduleID,
		BookingCode:       booking.BookingCode,
		PreferredDateTime: booking.PreferredDateTime,
		IsActive:          booking.IsActive,
		CreatedAt:         booking.CreatedAt,
		UpdatedAt:         booking.UpdatedAt,
	}

	// Include schedule info if available
	if booking.Schedule.ID != 0 {
		response.Schedule = ScheduleToResponse(&booking.Schedule)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

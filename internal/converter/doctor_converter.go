package converter

import (
	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/domain/availability"
	"go-medical-scheduling/internal/domain/entity"
)

// DoctorProfileToResponse builds the public directory entry. Contact and licence
// fields stay private; schedules are included only when preloaded.
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	resp := &dto.DoctorResponse{
		ID:             profile.UserID,
		FullName:       profile.User.FullName,
		Specialization: profile.Specialization,
		Biography:      profile.Biography,
	}
	for _, s := range profile.Schedules {
		resp.Schedules = append(resp.Schedules, dto.DoctorScheduleSummary{
			ID:                  s.ID,
			StartDate:           s.StartDate.Format(availability.DateLayout),
			EndDate:             s.EndDate.Format(availability.DateLayout),
			SlotDurationMinutes: s.SlotDurationMinutes,
			RecurrenceRule:      s.RecurrenceRule,
		})
	}
	return resp
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

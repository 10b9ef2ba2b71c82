package usecase

import (
	"context"
	"errors"

	"go-medical-scheduling/internal/delivery/http/middleware"
	"go-medical-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

var errNoUserInContext = errors.New("user not found in context")

type actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a actor) IsAdmin() bool { return a.RoleID == entity.RoleIDAdmin }

func actorFromContext(ctx context.Context) (actor, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return actor{}, errNoUserInContext
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)
	return actor{UserID: userID, RoleID: roleID}, nil
}

// canManageSchedule: admins manage every schedule, doctors only their own.
func canManageSchedule(a actor, schedule *entity.Schedule) bool {
	if a.IsAdmin() {
		return true
	}
	return a.RoleID == entity.RoleIDDoctor && schedule.IsOwnedBy(a.UserID)
}

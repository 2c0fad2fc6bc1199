package create_staff_event

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents/models"
)

type StaffEventService interface {
	Create(ctx context.Context, actor *domain.Actor, req *models.CreateStaffEventRequest) (*models.StaffEventResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

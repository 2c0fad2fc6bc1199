package list_staff_events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents/models"
)

type StaffEventService interface {
	List(ctx context.Context, actor *domain.Actor, category string, from, to time.Time) (*models.StaffEventListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

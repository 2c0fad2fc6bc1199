package delete_staff_event

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type StaffEventService interface {
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

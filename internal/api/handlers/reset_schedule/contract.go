package reset_schedule

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ScheduleService interface {
	Reset(ctx context.Context, actor *domain.Actor, category string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

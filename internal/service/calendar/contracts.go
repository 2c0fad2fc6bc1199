package calendar

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// StaffEventRepository интерфейс репозитория служебных событий
type StaffEventRepository interface {
	List(ctx context.Context, filter domain.StaffEventsFilter) ([]*domain.StaffEvent, error)
}

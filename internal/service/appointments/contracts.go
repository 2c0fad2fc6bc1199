package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	SetCanceled(ctx context.Context, id int64, canceled bool, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Guard выполняет изменение под блокировкой дней категории
type Guard interface {
	Do(ctx context.Context, category string, days []time.Time,
		write func(txCtx context.Context) error, after func(ctx context.Context) error) error
}

// Reconciler пересчет маркера полной занятости
type Reconciler interface {
	AfterRemoval(ctx context.Context, day time.Time, category string) error
}

// HoursProvider рабочее окно категории (нужен часовой пояс дня)
type HoursProvider interface {
	WorkingHours(ctx context.Context, category string) (domain.WorkingHours, error)
}

// Authorizer оракул прав
type Authorizer interface {
	HasRole(required string, actor *domain.Actor) bool
	IsAuthor(actor *domain.Actor, ownerID *int64) bool
	CanSeeStaffNotes(actor *domain.Actor, category string) bool
	CanAccessAppointment(actor *domain.Actor, a *domain.Appointment) bool
}

// Notifier уведомления клиента
type Notifier interface {
	Notify(kind notifier.Kind, a *domain.Appointment)
}

// Metrics учет операций над записями
type Metrics interface {
	ObserveAppointment(category, action string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package update_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
}

// ProcedureRepository интерфейс каталога процедур
type ProcedureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Procedure, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Procedure, error)
}

// Calendar интерфейс выборки интервалов категории
type Calendar interface {
	FindIntervals(ctx context.Context, category string, from, to time.Time) ([]domain.Interval, error)
}

// Guard выполняет изменение под блокировкой дней категории
type Guard interface {
	Do(ctx context.Context, category string, days []time.Time,
		write func(txCtx context.Context) error, after func(ctx context.Context) error) error
}

// Reconciler пересчет маркеров занятости после изменения записи
type Reconciler interface {
	AfterMutation(ctx context.Context, day time.Time, category string) error
	AfterRemoval(ctx context.Context, day time.Time, category string) error
	AfterReschedule(ctx context.Context, oldDay, newDay time.Time, category string) error
}

// HoursProvider рабочее окно категории
type HoursProvider interface {
	WorkingHours(ctx context.Context, category string) (domain.WorkingHours, error)
}

// Authorizer оракул прав
type Authorizer interface {
	HasRole(required string, actor *domain.Actor) bool
	IsAuthor(actor *domain.Actor, ownerID *int64) bool
	CanSeeStaffNotes(actor *domain.Actor, category string) bool
}

// Notifier уведомления клиента
type Notifier interface {
	Notify(kind notifier.Kind, a *domain.Appointment)
}

// Metrics учет операций над записями
type Metrics interface {
	ObserveAppointment(category, action string)
	ObserveConflict(category string)
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

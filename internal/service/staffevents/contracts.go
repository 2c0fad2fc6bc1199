package staffevents

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// StaffEventRepository интерфейс репозитория служебных событий
type StaffEventRepository interface {
	Create(ctx context.Context, e *domain.StaffEvent) (*domain.StaffEvent, error)
	GetByID(ctx context.Context, id int64) (*domain.StaffEvent, error)
	List(ctx context.Context, filter domain.StaffEventsFilter) ([]*domain.StaffEvent, error)
	Delete(ctx context.Context, id int64) error
}

// Guard выполняет изменение под блокировкой дней категории
type Guard interface {
	Do(ctx context.Context, category string, days []time.Time,
		write func(txCtx context.Context) error, after func(ctx context.Context) error) error
}

// Reconciler пересчет маркеров по всем дням интервала
type Reconciler interface {
	AfterSpan(ctx context.Context, from, to time.Time, category string) error
}

// HoursProvider рабочее окно категории
type HoursProvider interface {
	WorkingHours(ctx context.Context, category string) (domain.WorkingHours, error)
}

// Authorizer оракул прав
type Authorizer interface {
	HasRole(required string, actor *domain.Actor) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

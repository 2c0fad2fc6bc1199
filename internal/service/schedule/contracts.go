package schedule

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний категорий
type ScheduleRepository interface {
	GetByCategory(ctx context.Context, category string) (*domain.CategorySchedule, error)
	Upsert(ctx context.Context, s *domain.CategorySchedule) (*domain.CategorySchedule, error)
	Delete(ctx context.Context, category string) error
}

// RoleRepository нужен для проверки, что категория существует
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// MarkerRefresher пересчитывает маркеры occupied категории после смены рабочих часов
type MarkerRefresher interface {
	RefreshCategory(ctx context.Context, category string) (int, error)
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

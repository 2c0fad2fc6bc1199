package get_free_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ProcedureRepository интерфейс каталога процедур
type ProcedureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Procedure, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Procedure, error)
}

// Calendar интерфейс выборки интервалов категории
type Calendar interface {
	FindIntervals(ctx context.Context, category string, from, to time.Time) ([]domain.Interval, error)
}

// HoursProvider рабочее окно категории
type HoursProvider interface {
	WorkingHours(ctx context.Context, category string) (domain.WorkingHours, error)
}

// Metrics учет отданных слотов
type Metrics interface {
	ObserveFreeSlots(category string, count int)
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

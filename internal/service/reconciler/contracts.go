package reconciler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CalendarReader читает интервалы категории за период
type CalendarReader interface {
	FindIntervals(ctx context.Context, category string, from, to time.Time) ([]domain.Interval, error)
}

// MarkerRepository хранилище маркеров полной занятости
type MarkerRepository interface {
	FindOccupiedMarker(ctx context.Context, category string, dayStart time.Time) (*domain.StaffEvent, error)
	// InsertOccupiedMarker вставляет маркер, если его еще нет. created=false, если маркер уже существовал
	InsertOccupiedMarker(ctx context.Context, marker *domain.StaffEvent) (created bool, err error)
	DeleteOccupiedMarkers(ctx context.Context, category string, dayStart time.Time) (int64, error)
}

// HoursProvider рабочее окно категории
type HoursProvider interface {
	WorkingHours(ctx context.Context, category string) (domain.WorkingHours, error)
}

// Metrics учет изменений маркеров
type Metrics interface {
	ObserveMarker(category, action string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

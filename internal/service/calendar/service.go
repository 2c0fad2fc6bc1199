package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Service объединяет записи и служебные события категории в единый календарь интервалов
type Service struct {
	appointmentRepo AppointmentRepository
	staffEventRepo  StaffEventRepository
}

// NewService создает новый экземпляр сервиса календаря
func NewService(appointmentRepo AppointmentRepository, staffEventRepo StaffEventRepository) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		staffEventRepo:  staffEventRepo,
	}
}

// FindIntervals возвращает неотмененные записи и все служебные события категории,
// пересекающие [from, to), упорядоченные по началу.
// Внутри транзакции записи читаются с блокировкой (см. репозиторий записей).
func (s *Service) FindIntervals(ctx context.Context, category string, from, to time.Time) ([]domain.Interval, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: %s - %s", ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		ServiceCategory: &category,
		From:            &from,
		To:              &to,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: FindIntervals - list appointments: %w", ErrInternal, err)
	}

	events, err := s.staffEventRepo.List(ctx, domain.StaffEventsFilter{
		ServiceCategory: &category,
		From:            &from,
		To:              &to,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: FindIntervals - list staff events: %w", ErrInternal, err)
	}

	intervals := make([]domain.Interval, 0, len(appointments)+len(events))
	for _, a := range appointments {
		intervals = append(intervals, a.Interval())
	}
	for _, e := range events {
		intervals = append(intervals, e.Interval())
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	return intervals, nil
}

package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

const (
	actionCreated = "created"
	actionDeleted = "deleted"
)

// Service поддерживает маркер occupied в соответствии с реальной занятостью дня.
// Вызывается после каждой мутации записей и служебных событий.
type Service struct {
	calendar CalendarReader
	markers  MarkerRepository
	hours    HoursProvider
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса. metrics может быть nil
func NewService(
	calendar CalendarReader,
	markers MarkerRepository,
	hours HoursProvider,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		calendar: calendar,
		markers:  markers,
		hours:    hours,
		metrics:  metrics,
		logger:   logger,
	}
}

// OnCreated пересчитывает занятость дня после создания записи или блока.
// Если день полностью занят и маркера нет, создает его.
func (s *Service) OnCreated(ctx context.Context, day time.Time, category string) error {
	hours, dayStart, err := s.resolveDay(ctx, day, category)
	if err != nil {
		return err
	}

	full, err := s.isFull(ctx, hours, dayStart, category)
	if err != nil {
		return err
	}
	if !full {
		return nil
	}

	return s.ensureMarker(ctx, dayStart, category)
}

// OnFreed безусловно удаляет маркер дня. Освобождение любого слота делает прежний маркер
// неверным; если день может остаться занятым, вызывающий повторяет OnCreated.
func (s *Service) OnFreed(ctx context.Context, day time.Time, category string) error {
	_, dayStart, err := s.resolveDay(ctx, day, category)
	if err != nil {
		return err
	}

	return s.removeMarkers(ctx, dayStart, category)
}

// AfterMutation приводит маркер дня к фактической занятости. Идемпотентна:
// повторный вызов для неизменного дня ничего не меняет.
func (s *Service) AfterMutation(ctx context.Context, day time.Time, category string) error {
	hours, dayStart, err := s.resolveDay(ctx, day, category)
	if err != nil {
		return err
	}

	full, err := s.isFull(ctx, hours, dayStart, category)
	if err != nil {
		return err
	}

	if full {
		return s.ensureMarker(ctx, dayStart, category)
	}
	return s.removeMarkers(ctx, dayStart, category)
}

// AfterRemoval обрабатывает отмену или удаление: маркер дня снимается безусловно,
// затем день проверяется повторно (его мог занимать еще и блок сотрудника).
func (s *Service) AfterRemoval(ctx context.Context, day time.Time, category string) error {
	if err := s.OnFreed(ctx, day, category); err != nil {
		return err
	}
	return s.OnCreated(ctx, day, category)
}

// IsDayFullyBooked проверяет, остался ли в дне хотя бы один свободный слот шириной в шаг сетки
func (s *Service) IsDayFullyBooked(ctx context.Context, day time.Time, category string) (bool, error) {
	hours, dayStart, err := s.resolveDay(ctx, day, category)
	if err != nil {
		return false, err
	}
	return s.isFull(ctx, hours, dayStart, category)
}

// AfterReschedule обрабатывает перенос записи: сначала освобождение старого дня
// (с повторной проверкой, т.к. старый день мог остаться занятым), затем новый день.
func (s *Service) AfterReschedule(ctx context.Context, oldDay, newDay time.Time, category string) error {
	if err := s.OnFreed(ctx, oldDay, category); err != nil {
		return err
	}
	if err := s.OnCreated(ctx, oldDay, category); err != nil {
		return err
	}
	return s.OnCreated(ctx, newDay, category)
}

// AfterSpan вызывает AfterMutation для каждого дня, который задевает [from, to)
func (s *Service) AfterSpan(ctx context.Context, from, to time.Time, category string) error {
	for _, day := range s.Days(ctx, from, to, category) {
		if err := s.AfterMutation(ctx, day, category); err != nil {
			return err
		}
	}
	return nil
}

// Days локальные начала дней, которые задевает интервал [from, to)
func (s *Service) Days(ctx context.Context, from, to time.Time, category string) []time.Time {
	hours, err := s.hours.WorkingHours(ctx, category)
	if err != nil {
		hours = domain.WorkingHours{Location: from.Location()}
	}
	return SpanDays(hours, from, to)
}

// SpanDays локальные начала дней, которые задевает интервал [from, to)
func SpanDays(hours domain.WorkingHours, from, to time.Time) []time.Time {
	days := []time.Time{hours.DayStart(from)}
	for d := days[0].AddDate(0, 0, 1); d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ensureMarker создает маркер дня, если его еще нет
func (s *Service) ensureMarker(ctx context.Context, dayStart time.Time, category string) error {
	existing, err := s.markers.FindOccupiedMarker(ctx, category, dayStart)
	if err != nil {
		s.logger.Error("reconciler: failed to find marker category=%s day=%s: %v", category, dayStart.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: find marker: %w", ErrInternal, err)
	}
	if existing != nil {
		return nil
	}

	created, err := s.markers.InsertOccupiedMarker(ctx, domain.NewOccupiedMarker(category, dayStart))
	if err != nil {
		s.logger.Error("reconciler: failed to insert marker category=%s day=%s: %v", category, dayStart.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: insert marker: %w", ErrInternal, err)
	}
	if created {
		s.observe(category, actionCreated)
		s.logger.Info("reconciler: day %s is fully booked for category=%s, marker created", dayStart.Format(domain.DateFormat), category)
	}

	return nil
}

func (s *Service) removeMarkers(ctx context.Context, dayStart time.Time, category string) error {
	deleted, err := s.markers.DeleteOccupiedMarkers(ctx, category, dayStart)
	if err != nil {
		s.logger.Error("reconciler: failed to delete marker category=%s day=%s: %v", category, dayStart.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: delete marker: %w", ErrInternal, err)
	}
	if deleted > 0 {
		s.observe(category, actionDeleted)
		s.logger.Info("reconciler: marker removed for category=%s day=%s", category, dayStart.Format(domain.DateFormat))
	}
	return nil
}

func (s *Service) resolveDay(ctx context.Context, day time.Time, category string) (domain.WorkingHours, time.Time, error) {
	if category == "" {
		return domain.WorkingHours{}, time.Time{}, ErrInvalidCategory
	}

	hours, err := s.hours.WorkingHours(ctx, category)
	if err != nil {
		s.logger.Error("reconciler: failed to get working hours for category=%s: %v", category, err)
		return domain.WorkingHours{}, time.Time{}, fmt.Errorf("%w: working hours: %w", ErrInternal, err)
	}

	return hours, hours.DayStart(day), nil
}

func (s *Service) isFull(ctx context.Context, hours domain.WorkingHours, dayStart time.Time, category string) (bool, error) {
	intervals, err := s.calendar.FindIntervals(ctx, category, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("reconciler: failed to read calendar category=%s day=%s: %v", category, dayStart.Format(domain.DateFormat), err)
		return false, fmt.Errorf("%w: read calendar: %w", ErrInternal, err)
	}

	full, err := availability.IsDayFullyBooked(dayStart, hours, intervals)
	if err != nil {
		return false, fmt.Errorf("%w: full day check: %w", ErrInternal, err)
	}
	return full, nil
}

func (s *Service) observe(category, action string) {
	if s.metrics != nil {
		s.metrics.ObserveMarker(category, action)
	}
}

package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// DayGuard блокировка дней категории, под которой пересчитывается маркер
type DayGuard interface {
	Do(
		ctx context.Context,
		category string,
		days []time.Time,
		write func(txCtx context.Context) error,
		after func(ctx context.Context) error,
	) error
}

// Refresher пересчитывает маркеры occupied всех дней категории от сегодняшнего
// на horizonDays вперед, в которых есть записи, блоки или сами маркеры.
// Нужен после смены рабочих часов: занятость дня меняется без мутации записей.
type Refresher struct {
	calendar    CalendarReader
	guard       DayGuard
	reconciler  *Service
	hours       HoursProvider
	horizonDays int
	now         func() time.Time
	logger      Logger
}

// NewRefresher создает новый экземпляр
func NewRefresher(
	calendar CalendarReader,
	guard DayGuard,
	reconciler *Service,
	hours HoursProvider,
	horizonDays int,
	logger Logger,
) *Refresher {
	return &Refresher{
		calendar:    calendar,
		guard:       guard,
		reconciler:  reconciler,
		hours:       hours,
		horizonDays: horizonDays,
		now:         time.Now,
		logger:      logger,
	}
}

// RefreshCategory приводит маркеры затронутых дней к фактической занятости.
// Каждый день пересчитывается под своей блокировкой; ошибка одного дня не останавливает остальные.
// Возвращает число пересчитанных дней.
func (r *Refresher) RefreshCategory(ctx context.Context, category string) (int, error) {
	hours, err := r.hours.WorkingHours(ctx, category)
	if err != nil {
		return 0, fmt.Errorf("%w: refresh - working hours: %w", ErrInternal, err)
	}

	from := hours.DayStart(r.now())
	to := from.AddDate(0, 0, r.horizonDays)

	intervals, err := r.calendar.FindIntervals(ctx, category, from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: refresh - read calendar: %w", ErrInternal, err)
	}

	days := touchedDays(hours, intervals, from, to)

	var errs []error
	for _, day := range days {
		err := r.guard.Do(ctx, category, []time.Time{day}, nil, func(ctx context.Context) error {
			return r.reconciler.AfterMutation(ctx, day, category)
		})
		if err != nil {
			r.logger.Error("reconciler: refresh failed for category=%s day=%s: %v", category, day.Format(domain.DateFormat), err)
			errs = append(errs, err)
		}
	}

	r.logger.Info("reconciler: refreshed %d day(s) of category=%s", len(days), category)
	return len(days), errors.Join(errs...)
}

// touchedDays начала дней в [from, to), которые задевает хотя бы один интервал, по возрастанию
func touchedDays(hours domain.WorkingHours, intervals []domain.Interval, from, to time.Time) []time.Time {
	seen := make(map[int64]time.Time)
	for _, iv := range intervals {
		start, end := iv.Start, iv.End
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if !end.After(start) {
			continue
		}
		for _, d := range SpanDays(hours, start, end) {
			seen[d.Unix()] = d
		}
	}

	days := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

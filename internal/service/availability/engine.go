package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Query входные данные расчета свободного времени на один день одной категории
type Query struct {
	Day       time.Time
	Hours     domain.WorkingHours
	Duration  time.Duration
	Intervals []domain.Interval

	// Exclude событие, которое не блокирует слоты (редактируемая запись)
	Exclude *domain.EventRef

	// Now отсекает слоты в прошлом. nil - прошлое не отсекается
	Now *time.Time
}

// FreeSlots возвращает упорядоченный список моментов, в которые может начаться запись
// длительностью q.Duration.
//
// Слот t занят, если окно [t, t+duration) пересекается хотя бы с одним интервалом [s, e):
// s < t+duration && e > t. Интервалы, которые только касаются окна границей, слот не занимают.
//
// Найдя занятый слот, скан перескакивает на (конец блокирующего интервала - шаг), чтобы
// следующая итерация проверила ровно момент окончания. Если интервал кончается не по сетке,
// дальнейшие слоты идут от его конца: после [09:00, 09:10) следующий кандидат 09:10, а не 09:15.
//
// Отмененные записи и маркеры occupied не учитываются: маркер сам выводится из занятости дня.
func FreeSlots(q Query) ([]time.Time, error) {
	if q.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if !q.Hours.IsValid() {
		return nil, ErrInvalidWorkingHours
	}

	step := q.Hours.Granularity()
	closes := q.Hours.ClosesAt(q.Day)
	blocking := relevantIntervals(q.Intervals, q.Exclude)

	// на сетке условие совпадает с границей SlotStarts, вне сетки (после прыжка) держит запись до закрытия
	free := make([]time.Time, 0)
	for t := q.Hours.OpensAt(q.Day); !t.Add(q.Duration).After(closes); t = t.Add(step) {
		if q.Now != nil && t.Before(*q.Now) {
			continue
		}

		if until, blocked := blockedUntil(blocking, t, t.Add(q.Duration)); blocked {
			// until > t, поэтому следующая итерация всегда продвигается вперед
			t = until.Add(-step)
			continue
		}

		free = append(free, t)
	}

	return free, nil
}

// IsSlotFree проверяет, что start входит в список свободных слотов
func IsSlotFree(q Query, start time.Time) (bool, error) {
	free, err := FreeSlots(q)
	if err != nil {
		return false, err
	}

	for _, t := range free {
		if t.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

// IsDayFullyBooked сообщает, что за рабочий день нет ни одного свободного слота минимальной
// длительности. Прошлое не отсекается: день считается по всему рабочему окну.
func IsDayFullyBooked(day time.Time, hours domain.WorkingHours, intervals []domain.Interval) (bool, error) {
	free, err := FreeSlots(Query{
		Day:       day,
		Hours:     hours,
		Duration:  hours.Granularity(),
		Intervals: intervals,
	})
	if err != nil {
		return false, err
	}
	return len(free) == 0, nil
}

func relevantIntervals(intervals []domain.Interval, exclude *domain.EventRef) []domain.Interval {
	result := make([]domain.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Matches(exclude) || iv.IsOccupiedMarker() {
			continue
		}
		if iv.Kind == domain.KindAppointment && iv.Appointment != nil && iv.Appointment.Canceled {
			continue
		}
		if !iv.End.After(iv.Start) {
			continue
		}
		result = append(result, iv)
	}
	return result
}

// blockedUntil возвращает самый поздний конец среди интервалов, пересекающих [start, end)
func blockedUntil(intervals []domain.Interval, start, end time.Time) (time.Time, bool) {
	var until time.Time
	blocked := false

	for _, iv := range intervals {
		if !iv.Overlaps(start, end) {
			continue
		}
		if !blocked || iv.End.After(until) {
			until = iv.End
		}
		blocked = true
	}

	return until, blocked
}

package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SlotStarts генерирует кандидатов на начало записи для дня day.
// Первый кандидат ровно в начало работы, шаг равен granularity, все кандидаты строго меньше
// верхней границы. Граница сдвигается назад на (duration - granularity), чтобы запись
// длительностью duration не выходила за время закрытия.
//
// Примеры (07:00-17:00, шаг 15 минут):
// - duration 15  → граница 17:00, последний слот 16:45
// - duration 60  → граница 16:15, последний слот 16:00
// - duration 600 → граница 07:15, единственный слот 07:00
func SlotStarts(day time.Time, hours domain.WorkingHours, duration time.Duration) []time.Time {
	step := hours.Granularity()
	if step <= 0 {
		return nil
	}

	opens := hours.OpensAt(day)
	upper := upperBound(day, hours, duration)
	if !opens.Before(upper) {
		return []time.Time{}
	}

	slots := make([]time.Time, 0, int(upper.Sub(opens)/step)+1)
	for t := opens; t.Before(upper); t = t.Add(step) {
		slots = append(slots, t)
	}

	return slots
}

// upperBound верхняя граница (не включительно) для начала записи длительностью duration
func upperBound(day time.Time, hours domain.WorkingHours, duration time.Duration) time.Time {
	closes := hours.ClosesAt(day)
	if spill := duration - hours.Granularity(); spill > 0 {
		return closes.Add(-spill)
	}
	return closes
}

// FormatSlots форматирует слоты как локальное время HH:MM
func FormatSlots(slots []time.Time, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}

	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.In(loc).Format(domain.TimeFormat)
	}
	return labels
}

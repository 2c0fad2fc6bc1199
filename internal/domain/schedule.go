package domain

import "time"

// WorkingHours daily working window of a service category
type WorkingHours struct {
	StartHour          int
	EndHour            int
	GranularityMinutes int
	Location           *time.Location
}

// Granularity grid step as a duration
func (w WorkingHours) Granularity() time.Duration {
	return time.Duration(w.GranularityMinutes) * time.Minute
}

// DayStart local midnight of the day containing t
func (w WorkingHours) DayStart(t time.Time) time.Time {
	local := t.In(w.location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, w.location())
}

// OpensAt start of work on the given day
func (w WorkingHours) OpensAt(day time.Time) time.Time {
	d := w.DayStart(day)
	return time.Date(d.Year(), d.Month(), d.Day(), w.StartHour, 0, 0, 0, w.location())
}

// ClosesAt end of work on the given day
func (w WorkingHours) ClosesAt(day time.Time) time.Time {
	d := w.DayStart(day)
	return time.Date(d.Year(), d.Month(), d.Day(), w.EndHour, 0, 0, 0, w.location())
}

// IsValid checks hour bounds and granularity
func (w WorkingHours) IsValid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour &&
		w.GranularityMinutes > 0 && 60%w.GranularityMinutes == 0
}

// Loc часовой пояс салона, UTC если не задан
func (w WorkingHours) Loc() *time.Location {
	return w.location()
}

func (w WorkingHours) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// CategorySchedule per-category override of working hours
type CategorySchedule struct {
	ServiceCategory string
	WorkStartHour   int
	WorkEndHour     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

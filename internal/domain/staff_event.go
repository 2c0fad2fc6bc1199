package domain

import "time"

// StaffEventType тип служебного события календаря
type StaffEventType string

const (
	StaffEventVacation    StaffEventType = "vacation"
	StaffEventManualBlock StaffEventType = "manual-block"
	StaffEventOccupied    StaffEventType = "occupied" // маркер полностью занятого дня, создается только системой
)

// IsValid returns true for known event types
func (t StaffEventType) IsValid() bool {
	switch t {
	case StaffEventVacation, StaffEventManualBlock, StaffEventOccupied:
		return true
	}
	return false
}

// IsUserCreatable returns true for types staff may create by hand
func (t StaffEventType) IsUserCreatable() bool {
	return t == StaffEventVacation || t == StaffEventManualBlock
}

// OccupiedMarkerTitle заголовок маркера в календаре
const OccupiedMarkerTitle = "Obsazeno"

// StaffEvent represents a non-customer calendar block
type StaffEvent struct {
	ID              int64
	ServiceCategory string
	EventType       StaffEventType
	StaffID         *int64 // nil для маркеров occupied
	AllDay          bool
	Title           string
	StaffNotes      *string
	Start           time.Time
	End             time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOccupiedMarker returns true for system-generated fully booked markers
func (e *StaffEvent) IsOccupiedMarker() bool {
	return e.EventType == StaffEventOccupied
}

// Interval returns the staff event as a calendar interval
func (e *StaffEvent) Interval() Interval {
	return Interval{
		Kind:       KindStaffEvent,
		ID:         e.ID,
		Start:      e.Start,
		End:        e.End,
		StaffEvent: e,
	}
}

// NewOccupiedMarker builds an all-day marker for the day containing dayStart.
// dayStart must be local midnight.
func NewOccupiedMarker(category string, dayStart time.Time) *StaffEvent {
	return &StaffEvent{
		ServiceCategory: category,
		EventType:       StaffEventOccupied,
		AllDay:          true,
		Title:           OccupiedMarkerTitle,
		Start:           dayStart,
		End:             dayStart.AddDate(0, 0, 1),
	}
}

// StaffEventsFilter фильтр выборки служебных событий
type StaffEventsFilter struct {
	ServiceCategory *string
	EventType       *StaffEventType
	From            *time.Time // события, заканчивающиеся позже From
	To              *time.Time // события, начинающиеся раньше To
}

package domain

import "time"

// IntervalKind discriminates the two kinds of calendar intervals
type IntervalKind int

const (
	KindAppointment IntervalKind = iota + 1
	KindStaffEvent
)

func (k IntervalKind) String() string {
	switch k {
	case KindAppointment:
		return "appointment"
	case KindStaffEvent:
		return "staff_event"
	default:
		return "unknown"
	}
}

// Interval is a half-open [Start, End) block in a category calendar.
// Exactly one of Appointment and StaffEvent is set, according to Kind.
type Interval struct {
	Kind  IntervalKind
	ID    int64
	Start time.Time
	End   time.Time

	Appointment *Appointment
	StaffEvent  *StaffEvent
}

// Overlaps reports whether [start, end) intersects the interval
func (i Interval) Overlaps(start, end time.Time) bool {
	return i.Start.Before(end) && i.End.After(start)
}

// IsOccupiedMarker returns true for fully booked markers
func (i Interval) IsOccupiedMarker() bool {
	return i.Kind == KindStaffEvent && i.StaffEvent != nil && i.StaffEvent.IsOccupiedMarker()
}

// Matches returns true if the interval is the referenced event
func (i Interval) Matches(ref *EventRef) bool {
	return ref != nil && ref.Kind == i.Kind && ref.ID == i.ID
}

// EventRef identifies an appointment or staff event
type EventRef struct {
	Kind IntervalKind
	ID   int64
}

// AppointmentRef reference to an appointment by id
func AppointmentRef(id int64) *EventRef {
	return &EventRef{Kind: KindAppointment, ID: id}
}

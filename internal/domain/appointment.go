package domain

import (
	"fmt"
	"time"
)

// ExtraProcedure дополнительная процедура, замороженная на момент записи
type ExtraProcedure struct {
	ProcedureID     int64   `json:"procedureId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// Appointment represents a customer booking of a procedure
type Appointment struct {
	ID              int64
	ServiceCategory string
	CustomerID      *int64 // nil для анонимной записи
	Lastname        string
	Email           *string
	Phone           *string

	// Denormalized procedure data, frozen at creation
	ProcedureID     int64
	ProcedureName   string
	Title           string
	Price           float64
	DurationMinutes int
	ExtraProcedures []ExtraProcedure

	Notes      *string
	StaffNotes *string
	AllDay     bool // занимает все рабочее окно дня, ставит только администратор

	Start time.Time
	End   time.Time

	Canceled   bool
	CanceledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDurationMinutes base duration plus all extras
func (a *Appointment) TotalDurationMinutes() int {
	total := a.DurationMinutes
	for _, e := range a.ExtraProcedures {
		total += e.DurationMinutes
	}
	return total
}

// TotalPrice base price plus all extras
func (a *Appointment) TotalPrice() float64 {
	total := a.Price
	for _, e := range a.ExtraProcedures {
		total += e.Price
	}
	return total
}

// Recalculate выставляет End и Title по Start, длительности и фамилии
func (a *Appointment) Recalculate() {
	total := a.TotalDurationMinutes()
	a.End = a.Start.Add(time.Duration(total) * time.Minute)
	a.Title = BuildTitle(a.Lastname, total)
}

// SpanWorkingDay растягивает запись на рабочее окно дня ее начала. Title сохраняет длительность процедур
func (a *Appointment) SpanWorkingDay(hours WorkingHours) {
	a.Start = hours.OpensAt(a.Start)
	a.End = hours.ClosesAt(a.Start)
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return !a.Canceled
}

// IsOwnedBy returns true if the appointment belongs to the given customer
func (a *Appointment) IsOwnedBy(userID int64) bool {
	return a.CustomerID != nil && *a.CustomerID == userID
}

// Interval returns the appointment as a calendar interval
func (a *Appointment) Interval() Interval {
	return Interval{
		Kind:        KindAppointment,
		ID:          a.ID,
		Start:       a.Start,
		End:         a.End,
		Appointment: a,
	}
}

// BuildTitle title shown in the staff calendar: "<lastname> <duration>min"
func BuildTitle(lastname string, durationMinutes int) string {
	return fmt.Sprintf("%s %dmin", lastname, durationMinutes)
}

// AppointmentsFilter фильтр выборки записей
type AppointmentsFilter struct {
	ServiceCategory *string    // Фильтр по категории (опционально)
	CustomerID      *int64     // Фильтр по клиенту (опционально)
	From            *time.Time // Начало периода включительно
	To              *time.Time // Конец периода не включительно
	IncludeCanceled bool
}

package notifier

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
)

// Kind вид уведомления
type Kind string

const (
	KindCreated  Kind = "created"
	KindUpdated  Kind = "updated"
	KindCanceled Kind = "canceled"
)

func (k Kind) eventType() string {
	switch k {
	case KindCreated:
		return eventbus.EventAppointmentCreated
	case KindCanceled:
		return eventbus.EventAppointmentCanceled
	default:
		return eventbus.EventAppointmentUpdated
	}
}

// Config настройки уведомлений
type Config struct {
	SalonName string
	Location  *time.Location
	Timeout   time.Duration // на одну доставку
}

// AppointmentEvent полезная нагрузка события в шине
type AppointmentEvent struct {
	AppointmentID   int64     `json:"appointmentId"`
	ServiceCategory string    `json:"serviceCategory"`
	CustomerID      *int64    `json:"customerId,omitempty"`
	ProcedureID     int64     `json:"procedureId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TotalPrice      float64   `json:"totalPrice"`
	Canceled        bool      `json:"canceled"`
}

func newAppointmentEvent(a *domain.Appointment) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:   a.ID,
		ServiceCategory: a.ServiceCategory,
		CustomerID:      a.CustomerID,
		ProcedureID:     a.ProcedureID,
		Start:           a.Start,
		End:             a.End,
		TotalPrice:      a.TotalPrice(),
		Canceled:        a.Canceled,
	}
}

package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceCategory   string    `json:"serviceCategory"`
	ProcedureID       int64     `json:"procedureId"`
	ExtraProcedureIDs []int64   `json:"extraProcedureIds,omitempty"`
	Lastname          string    `json:"lastname"`
	Email             *string   `json:"email,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	StaffNotes        *string   `json:"staffNotes,omitempty"`
	AllDay            bool      `json:"allDay,omitempty"`
	Start             time.Time `json:"start"` // RFC3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() *createAppointment.Request {
	return &createAppointment.Request{
		ServiceCategory:   r.ServiceCategory,
		ProcedureID:       r.ProcedureID,
		ExtraProcedureIDs: r.ExtraProcedureIDs,
		Lastname:          r.Lastname,
		Email:             r.Email,
		Phone:             r.Phone,
		Notes:             r.Notes,
		StaffNotes:        r.StaffNotes,
		AllDay:            r.AllDay,
		Start:             r.Start,
	}
}

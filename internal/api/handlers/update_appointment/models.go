package update_appointment

import (
	"time"

	updateAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest HTTP request model, отсутствующие поля не меняются
type UpdateAppointmentRequest struct {
	ProcedureID       *int64     `json:"procedureId,omitempty"`
	ExtraProcedureIDs *[]int64   `json:"extraProcedureIds,omitempty"`
	Start             *time.Time `json:"start,omitempty"`
	Lastname          *string    `json:"lastname,omitempty"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	StaffNotes        *string    `json:"staffNotes,omitempty"`
	AllDay            *bool      `json:"allDay,omitempty"`
	Canceled          *bool      `json:"canceled,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(id int64) *updateAppointment.Request {
	return &updateAppointment.Request{
		ID:                id,
		ProcedureID:       r.ProcedureID,
		ExtraProcedureIDs: r.ExtraProcedureIDs,
		Start:             r.Start,
		Lastname:          r.Lastname,
		Email:             r.Email,
		Phone:             r.Phone,
		Notes:             r.Notes,
		StaffNotes:        r.StaffNotes,
		AllDay:            r.AllDay,
		Canceled:          r.Canceled,
	}
}

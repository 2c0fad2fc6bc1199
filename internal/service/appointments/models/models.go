package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ExtraProcedureResponse дополнительная процедура записи
type ExtraProcedureResponse struct {
	ProcedureID     int64   `json:"procedureId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                   int64                    `json:"id"`
	ServiceCategory      string                   `json:"serviceCategory"`
	CustomerID           *int64                   `json:"customerId,omitempty"`
	Lastname             string                   `json:"lastname"`
	Email                *string                  `json:"email,omitempty"`
	Phone                *string                  `json:"phone,omitempty"`
	ProcedureID          int64                    `json:"procedureId"`
	ProcedureName        string                   `json:"procedureName"`
	Title                string                   `json:"title"`
	Price                float64                  `json:"price"`
	TotalPrice           float64                  `json:"totalPrice"`
	DurationMinutes      int                      `json:"durationMinutes"`
	TotalDurationMinutes int                      `json:"totalDurationMinutes"`
	ExtraProcedures      []ExtraProcedureResponse `json:"extraProcedures"`
	Notes                *string                  `json:"notes,omitempty"`
	StaffNotes           *string                  `json:"staffNotes,omitempty"` // только для сотрудников категории
	AllDay               bool                     `json:"allDay"`
	Start                time.Time                `json:"start"`
	End                  time.Time                `json:"end"`
	Canceled             bool                     `json:"canceled"`
	CanceledAt           *time.Time               `json:"canceledAt,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
	UpdatedAt            time.Time                `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO.
// withStaffNotes=false убирает staffNotes из ответа
func FromDomainAppointment(a *domain.Appointment, withStaffNotes bool) *AppointmentResponse {
	if a == nil {
		return nil
	}

	extras := make([]ExtraProcedureResponse, 0, len(a.ExtraProcedures))
	for _, e := range a.ExtraProcedures {
		extras = append(extras, ExtraProcedureResponse{
			ProcedureID:     e.ProcedureID,
			Name:            e.Name,
			Price:           e.Price,
			DurationMinutes: e.DurationMinutes,
		})
	}

	resp := &AppointmentResponse{
		ID:                   a.ID,
		ServiceCategory:      a.ServiceCategory,
		CustomerID:           a.CustomerID,
		Lastname:             a.Lastname,
		Email:                a.Email,
		Phone:                a.Phone,
		ProcedureID:          a.ProcedureID,
		ProcedureName:        a.ProcedureName,
		Title:                a.Title,
		Price:                a.Price,
		TotalPrice:           a.TotalPrice(),
		DurationMinutes:      a.DurationMinutes,
		TotalDurationMinutes: a.TotalDurationMinutes(),
		ExtraProcedures:      extras,
		Notes:                a.Notes,
		AllDay:               a.AllDay,
		Start:                a.Start,
		End:                  a.End,
		Canceled:             a.Canceled,
		CanceledAt:           a.CanceledAt,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if withStaffNotes {
		resp.StaffNotes = a.StaffNotes
	}

	return resp
}

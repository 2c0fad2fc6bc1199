package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// CreateProcedureRequest запрос на создание процедуры
type CreateProcedureRequest struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"` // кратно 15
	ServiceCategory string  `json:"serviceCategory"`
}

// UpdateProcedureRequest запрос на обновление процедуры
// Все поля опциональны - обновляются только переданные значения
type UpdateProcedureRequest struct {
	Name            *string  `json:"name,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Disabled        *bool    `json:"disabled,omitempty"`
}

// Response модели

// ProcedureResponse ответ с данными процедуры
type ProcedureResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	ServiceCategory string    `json:"serviceCategory"`
	Disabled        bool      `json:"disabled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProcedureListResponse ответ со списком процедур
type ProcedureListResponse struct {
	Procedures []ProcedureResponse `json:"procedures"`
}

// DeleteProcedureResponse результат удаления. Disabled=true, если процедура
// только отключена, т.к. на нее ссылаются записи
type DeleteProcedureResponse struct {
	ID       int64 `json:"id"`
	Disabled bool  `json:"disabled"`
}

// Методы конвертации

// FromDomainProcedure конвертирует domain модель в DTO
func FromDomainProcedure(p *domain.Procedure) *ProcedureResponse {
	if p == nil {
		return nil
	}

	return &ProcedureResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		DurationMinutes: p.DurationMinutes,
		ServiceCategory: p.ServiceCategory,
		Disabled:        p.Disabled,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// FromDomainProcedureList конвертирует список domain моделей в DTO
func FromDomainProcedureList(procedures []*domain.Procedure) *ProcedureListResponse {
	resp := &ProcedureListResponse{
		Procedures: make([]ProcedureResponse, 0, len(procedures)),
	}

	for _, p := range procedures {
		if item := FromDomainProcedure(p); item != nil {
			resp.Procedures = append(resp.Procedures, *item)
		}
	}

	return resp
}

// ToDomainProcedure конвертирует CreateProcedureRequest в domain модель
func (r *CreateProcedureRequest) ToDomainProcedure() *domain.Procedure {
	return &domain.Procedure{
		Name:            r.Name,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		ServiceCategory: r.ServiceCategory,
	}
}

// ApplyToProcedure применяет обновления к существующей процедуре
func (r *UpdateProcedureRequest) ApplyToProcedure(p *domain.Procedure) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.DurationMinutes != nil {
		p.DurationMinutes = *r.DurationMinutes
	}
	if r.Disabled != nil {
		p.Disabled = *r.Disabled
	}
}

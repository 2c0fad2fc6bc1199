package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CreateStaffEventRequest запрос на создание отпуска или ручного блока
type CreateStaffEventRequest struct {
	ServiceCategory string    `json:"serviceCategory"`
	EventType       string    `json:"eventType"` // vacation | manual-block
	AllDay          bool      `json:"allDay"`
	Title           string    `json:"title,omitempty"`
	StaffNotes      *string   `json:"staffNotes,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"` // для allDay можно не указывать: один день
}

// StaffEventResponse ответ с данными события
type StaffEventResponse struct {
	ID              int64     `json:"id"`
	ServiceCategory string    `json:"serviceCategory"`
	EventType       string    `json:"eventType"`
	StaffID         *int64    `json:"staffId,omitempty"`
	AllDay          bool      `json:"allDay"`
	Title           string    `json:"title"`
	StaffNotes      *string   `json:"staffNotes,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	CreatedAt       time.Time `json:"createdAt"`
}

// StaffEventListResponse ответ со списком событий
type StaffEventListResponse struct {
	Events []StaffEventResponse `json:"events"`
}

// FromDomainStaffEvent конвертирует domain модель в DTO
func FromDomainStaffEvent(e *domain.StaffEvent) *StaffEventResponse {
	if e == nil {
		return nil
	}
	return &StaffEventResponse{
		ID:              e.ID,
		ServiceCategory: e.ServiceCategory,
		EventType:       string(e.EventType),
		StaffID:         e.StaffID,
		AllDay:          e.AllDay,
		Title:           e.Title,
		StaffNotes:      e.StaffNotes,
		Start:           e.Start,
		End:             e.End,
		CreatedAt:       e.CreatedAt,
	}
}

// FromDomainStaffEventList конвертирует список domain моделей в DTO
func FromDomainStaffEventList(events []*domain.StaffEvent) *StaffEventListResponse {
	resp := &StaffEventListResponse{Events: make([]StaffEventResponse, 0, len(events))}
	for _, e := range events {
		if item := FromDomainStaffEvent(e); item != nil {
			resp.Events = append(resp.Events, *item)
		}
	}
	return resp
}

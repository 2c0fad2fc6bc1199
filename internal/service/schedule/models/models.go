package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// UpdateScheduleRequest запрос на изменение рабочих часов категории
type UpdateScheduleRequest struct {
	WorkStartHour int `json:"workStartHour"`
	WorkEndHour   int `json:"workEndHour"`
}

// ScheduleResponse действующее расписание категории
type ScheduleResponse struct {
	ServiceCategory    string     `json:"serviceCategory"`
	WorkStartHour      int        `json:"workStartHour"`
	WorkEndHour        int        `json:"workEndHour"`
	GranularityMinutes int        `json:"granularityMinutes"`
	Timezone           string     `json:"timezone"`
	IsDefault          bool       `json:"isDefault"` // true, если собственного расписания нет
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// FromWorkingHours собирает ответ из действующих рабочих часов
func FromWorkingHours(category string, hours domain.WorkingHours, override *domain.CategorySchedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		ServiceCategory:    category,
		WorkStartHour:      hours.StartHour,
		WorkEndHour:        hours.EndHour,
		GranularityMinutes: hours.GranularityMinutes,
		Timezone:           "UTC",
		IsDefault:          override == nil,
	}
	if hours.Location != nil {
		resp.Timezone = hours.Location.String()
	}
	if override != nil {
		updatedAt := override.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

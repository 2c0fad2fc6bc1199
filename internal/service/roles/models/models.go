package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CreateRoleRequest запрос на создание роли
type CreateRoleRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IsCategory  bool   `json:"isCategory"` // роль одновременно является категорией услуг
}

// RoleResponse ответ с данными роли
type RoleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	IsCategory  bool      `json:"isCategory"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RoleListResponse ответ со списком ролей
type RoleListResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// FromDomainRole конвертирует domain модель в DTO
func FromDomainRole(r *domain.Role) *RoleResponse {
	if r == nil {
		return nil
	}
	return &RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		IsCategory:  r.IsCategory,
		CreatedAt:   r.CreatedAt,
	}
}

// FromDomainRoleList конвертирует список domain моделей в DTO
func FromDomainRoleList(roles []*domain.Role) *RoleListResponse {
	resp := &RoleListResponse{Roles: make([]RoleResponse, 0, len(roles))}
	for _, r := range roles {
		if item := FromDomainRole(r); item != nil {
			resp.Roles = append(resp.Roles, *item)
		}
	}
	return resp
}

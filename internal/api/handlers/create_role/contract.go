package create_role

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/roles/models"
)

type RoleService interface {
	Create(ctx context.Context, actor *domain.Actor, req *models.CreateRoleRequest) (*models.RoleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

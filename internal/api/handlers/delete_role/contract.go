package delete_role

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type RoleService interface {
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

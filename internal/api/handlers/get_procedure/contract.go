package get_procedure

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures/models"
)

type ProcedureService interface {
	GetByID(ctx context.Context, actor *domain.Actor, id int64) (*models.ProcedureResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package create_procedure

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures/models"
)

type ProcedureService interface {
	Create(ctx context.Context, actor *domain.Actor, req *models.CreateProcedureRequest) (*models.ProcedureResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

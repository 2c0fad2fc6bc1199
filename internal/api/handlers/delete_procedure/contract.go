package delete_procedure

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures/models"
)

type ProcedureService interface {
	Delete(ctx context.Context, actor *domain.Actor, id int64) (*models.DeleteProcedureResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

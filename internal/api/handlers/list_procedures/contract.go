package list_procedures

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures/models"
)

type ProcedureService interface {
	List(ctx context.Context, actor *domain.Actor, category *string) (*models.ProcedureListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

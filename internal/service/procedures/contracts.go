package procedures

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ProcedureRepository интерфейс репозитория каталога процедур
type ProcedureRepository interface {
	Create(ctx context.Context, p *domain.Procedure) (*domain.Procedure, error)
	GetByID(ctx context.Context, id int64) (*domain.Procedure, error)
	List(ctx context.Context, filter domain.ProceduresFilter) ([]*domain.Procedure, error)
	Update(ctx context.Context, p *domain.Procedure) error
	Disable(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository нужен для проверки ссылок на процедуру
type AppointmentRepository interface {
	ExistsByProcedure(ctx context.Context, procedureID int64) (bool, error)
}

// RoleRepository нужен для проверки категории процедуры
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// Authorizer оракул прав
type Authorizer interface {
	HasRole(required string, actor *domain.Actor) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package roles

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	InsertIfAbsent(ctx context.Context, role domain.Role) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	List(ctx context.Context, onlyCategories bool) ([]*domain.Role, error)
	Delete(ctx context.Context, id int64) error
}

// ProcedureRepository нужен, чтобы не удалить категорию с процедурами
type ProcedureRepository interface {
	List(ctx context.Context, filter domain.ProceduresFilter) ([]*domain.Procedure, error)
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

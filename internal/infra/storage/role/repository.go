package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/pgerr"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const table = "roles"

var columns = []string{"id", "name", "display_name", "is_category", "created_at"}

// Repository репозиторий ролей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ролей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает роль
func (r *Repository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("name", "display_name", "is_category").
		Values(role.Name, role.DisplayName, role.IsCategory).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&role.ID, &createdAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateRole
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	role.CreatedAt = createdAt.Time

	return role, nil
}

// InsertIfAbsent вставляет роль, если роли с таким именем нет. Возвращает true при вставке
func (r *Repository) InsertIfAbsent(ctx context.Context, role domain.Role) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("name", "display_name", "is_category").
		Values(role.Name, role.DisplayName, role.IsCategory).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - execute insert: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// GetByID получает роль по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByName получает роль по имени
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.getOne(ctx, "GetByName", squirrel.Eq{"name": name})
}

// List получает все роли. onlyCategories оставляет только категории услуг
func (r *Repository) List(ctx context.Context, onlyCategories bool) ([]*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)
	if onlyCategories {
		builder = builder.Where(squirrel.Eq{"is_category": true})
	}

	query, args, err := builder.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan: %w", ErrScanRow, err)
		}
		result = append(result, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Delete удаляет роль
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	role, err := scanRole(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("%w: %s - scan: %w", ErrScanRow, op, err)
	}

	return role, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRole(row rowScanner) (*domain.Role, error) {
	var role domain.Role
	var createdAt sql.NullTime

	if err := row.Scan(&role.ID, &role.Name, &role.DisplayName, &role.IsCategory, &createdAt); err != nil {
		return nil, err
	}
	role.CreatedAt = createdAt.Time

	return &role, nil
}

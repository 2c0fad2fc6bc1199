package staffevent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const table = "staff_events"

var columns = []string{
	"id",
	"service_category",
	"event_type",
	"staff_id",
	"all_day",
	"title",
	"staff_notes",
	"start_at",
	"end_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий служебных событий календаря (отпуска, блокировки, маркеры занятости)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория служебных событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает служебное событие
func (r *Repository) Create(ctx context.Context, e *domain.StaffEvent) (*domain.StaffEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("service_category", "event_type", "staff_id", "all_day", "title", "staff_notes", "start_at", "end_at").
		Values(e.ServiceCategory, string(e.EventType), e.StaffID, e.AllDay, e.Title, e.StaffNotes, e.Start, e.End).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return e, nil
}

// GetByID получает служебное событие по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanStaffEvent(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffEventNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %w", ErrScanRow, err)
	}

	return e, nil
}

// List получает служебные события по фильтру, пересекающиеся с периодом [From, To)
func (r *Repository) List(ctx context.Context, filter domain.StaffEventsFilter) ([]*domain.StaffEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)

	if filter.ServiceCategory != nil {
		builder = builder.Where(squirrel.Eq{"service_category": *filter.ServiceCategory})
	}
	if filter.EventType != nil {
		builder = builder.Where(squirrel.Eq{"event_type": string(*filter.EventType)})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.Gt{"end_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *filter.To})
	}

	query, args, err := builder.OrderBy("start_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.StaffEvent, 0)
	for rows.Next() {
		e, err := scanStaffEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan: %w", ErrScanRow, err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Delete удаляет служебное событие, созданное сотрудником. Маркеры occupied так не удаляются.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"event_type": string(domain.StaffEventOccupied)}).
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
		return ErrStaffEventNotFound
	}

	return nil
}

// FindOccupiedMarker ищет маркер занятости дня. Возвращает nil, nil если маркера нет
func (r *Repository) FindOccupiedMarker(ctx context.Context, category string, dayStart time.Time) (*domain.StaffEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"service_category": category,
			"event_type":       string(domain.StaffEventOccupied),
			"start_at":         dayStart,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedMarker - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanStaffEvent(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: FindOccupiedMarker - scan: %w", ErrScanRow, err)
	}

	return e, nil
}

// InsertOccupiedMarker вставляет маркер, если для (категория, день) его еще нет.
// Уникальный частичный индекс гарантирует единственность при гонке.
func (r *Repository) InsertOccupiedMarker(ctx context.Context, marker *domain.StaffEvent) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("service_category", "event_type", "staff_id", "all_day", "title", "start_at", "end_at").
		Values(marker.ServiceCategory, string(domain.StaffEventOccupied), nil, true, marker.Title, marker.Start, marker.End).
		Suffix("ON CONFLICT (service_category, start_at) WHERE event_type = 'occupied' DO NOTHING RETURNING id").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: InsertOccupiedMarker - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&marker.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: InsertOccupiedMarker - execute insert: %w", ErrExecQuery, err)
	}

	return true, nil
}

// DeleteOccupiedMarkers удаляет маркеры занятости дня
func (r *Repository) DeleteOccupiedMarkers(ctx context.Context, category string, dayStart time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{
			"service_category": category,
			"event_type":       string(domain.StaffEventOccupied),
			"start_at":         dayStart,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOccupiedMarkers - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOccupiedMarkers - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOccupiedMarkers - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaffEvent(row rowScanner) (*domain.StaffEvent, error) {
	var (
		e          domain.StaffEvent
		eventType  string
		staffID    sql.NullInt64
		staffNotes sql.NullString
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.ServiceCategory,
		&eventType,
		&staffID,
		&e.AllDay,
		&e.Title,
		&staffNotes,
		&e.Start,
		&e.End,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.EventType = domain.StaffEventType(eventType)
	if staffID.Valid {
		e.StaffID = &staffID.Int64
	}
	if staffNotes.Valid {
		e.StaffNotes = &staffNotes.String
	}
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

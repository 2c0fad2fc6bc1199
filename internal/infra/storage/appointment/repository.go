package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/pgerr"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"service_category",
	"customer_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"procedure_id",
	"procedure_name",
	"title",
	"price",
	"duration_minutes",
	"extra_procedures",
	"notes",
	"staff_notes",
	"all_day",
	"start_at",
	"end_at",
	"canceled",
	"canceled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса (категория, начало) возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	extras, err := encodeExtras(a.ExtraProcedures)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"service_category",
			"customer_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"procedure_id",
			"procedure_name",
			"title",
			"price",
			"duration_minutes",
			"extra_procedures",
			"notes",
			"staff_notes",
			"all_day",
			"start_at",
			"end_at",
			"canceled",
		).
		Values(
			a.ServiceCategory,
			a.CustomerID,
			a.Lastname,
			a.Email,
			a.Phone,
			a.ProcedureID,
			a.ProcedureName,
			a.Title,
			a.Price,
			a.DurationMinutes,
			extras,
			a.Notes,
			a.StaffNotes,
			a.AllDay,
			a.Start,
			a.End,
			a.Canceled,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan: %w", ErrScanRow, err)
	}

	return a, nil
}

// List получает записи по фильтру, отсортированные по времени начала.
// Период выбирается по пересечению: запись попадает в [From, To), если хоть частично в нем лежит.
//
// Внутри транзакции при фильтре по категории строки блокируются (FOR UPDATE),
// чтобы проверка свободного слота и вставка видели одно и то же состояние.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From(table)

	if filter.ServiceCategory != nil {
		builder = builder.Where(squirrel.Eq{"service_category": *filter.ServiceCategory})
	}
	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.Gt{"end_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if !filter.IncludeCanceled {
		builder = builder.Where(squirrel.Eq{"canceled": false})
	}

	builder = builder.OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.ServiceCategory != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan: %w", ErrScanRow, err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Update сохраняет изменяемые поля записи
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	extras, err := encodeExtras(a.ExtraProcedures)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update(table).
		Set("service_category", a.ServiceCategory).
		Set("customer_name", a.Lastname).
		Set("customer_email", a.Email).
		Set("customer_phone", a.Phone).
		Set("procedure_id", a.ProcedureID).
		Set("procedure_name", a.ProcedureName).
		Set("title", a.Title).
		Set("price", a.Price).
		Set("duration_minutes", a.DurationMinutes).
		Set("extra_procedures", extras).
		Set("notes", a.Notes).
		Set("staff_notes", a.StaffNotes).
		Set("all_day", a.AllDay).
		Set("start_at", a.Start).
		Set("end_at", a.End).
		Set("canceled", a.Canceled).
		Set("canceled_at", a.CanceledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "Update")
}

// SetCanceled отменяет запись или возвращает ее из отмены
func (r *Repository) SetCanceled(ctx context.Context, id int64, canceled bool, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var canceledAt *time.Time
	if canceled {
		canceledAt = &at
	}

	query, args, err := psqlbuilder.Update(table).
		Set("canceled", canceled).
		Set("canceled_at", canceledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCanceled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: SetCanceled - execute update: %w", ErrExecQuery, err)
	}

	return checkAffected(result, "SetCanceled")
}

// Delete физически удаляет запись (только для администратора)
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

	return checkAffected(result, "Delete")
}

// ExistsByProcedure проверяет, ссылается ли хоть одна запись на процедуру
// (основную или дополнительную)
func (r *Repository) ExistsByProcedure(ctx context.Context, procedureID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ref, err := json.Marshal([]map[string]int64{{"procedureId": procedureID}})
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByProcedure - marshal: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Or{
			squirrel.Eq{"procedure_id": procedureID},
			squirrel.Expr("extra_procedures @> ?::jsonb", string(ref)),
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsByProcedure - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: ExistsByProcedure - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a          domain.Appointment
		customerID sql.NullInt64
		email      sql.NullString
		phone      sql.NullString
		extras     []byte
		notes      sql.NullString
		staffNotes sql.NullString
		canceledAt sql.NullTime
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.ServiceCategory,
		&customerID,
		&a.Lastname,
		&email,
		&phone,
		&a.ProcedureID,
		&a.ProcedureName,
		&a.Title,
		&a.Price,
		&a.DurationMinutes,
		&extras,
		&notes,
		&staffNotes,
		&a.AllDay,
		&a.Start,
		&a.End,
		&a.Canceled,
		&canceledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerID.Valid {
		a.CustomerID = &customerID.Int64
	}
	if email.Valid {
		a.Email = &email.String
	}
	if phone.Valid {
		a.Phone = &phone.String
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if staffNotes.Valid {
		a.StaffNotes = &staffNotes.String
	}
	if canceledAt.Valid {
		a.CanceledAt = &canceledAt.Time
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	a.ExtraProcedures = make([]domain.ExtraProcedure, 0)
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &a.ExtraProcedures); err != nil {
			return nil, fmt.Errorf("decode extra procedures: %w", err)
		}
	}

	return &a, nil
}

func encodeExtras(extras []domain.ExtraProcedure) (string, error) {
	if extras == nil {
		extras = []domain.ExtraProcedure{}
	}
	data, err := json.Marshal(extras)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return string(data), nil
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

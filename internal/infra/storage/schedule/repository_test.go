package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *Repository) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return mock, NewRepository(db)
}

func TestGetByCategory(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM category_schedules WHERE service_category = \$1`).
		WithArgs("massage").
		WillReturnRows(sqlmock.NewRows([]string{"service_category", "work_start_hour", "work_end_hour", "created_at", "updated_at"}).
			AddRow("massage", 9, 19, now, now))

	got, err := repo.GetByCategory(context.Background(), "massage")
	require.NoError(t, err)
	assert.Equal(t, 9, got.WorkStartHour)
	assert.Equal(t, 19, got.WorkEndHour)
}

func TestGetByCategory_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM category_schedules`).
		WillReturnRows(sqlmock.NewRows([]string{"service_category", "work_start_hour", "work_end_hour", "created_at", "updated_at"}))

	_, err := repo.GetByCategory(context.Background(), "massage")
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestUpsert(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO category_schedules (.+) ON CONFLICT \(service_category\) DO UPDATE SET`).
		WithArgs("hair", 8, 18).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Upsert(context.Background(), &domain.CategorySchedule{ServiceCategory: "hair", WorkStartHour: 8, WorkEndHour: 18})
	require.NoError(t, err)
	assert.Equal(t, now, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`DELETE FROM category_schedules`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "hair")
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

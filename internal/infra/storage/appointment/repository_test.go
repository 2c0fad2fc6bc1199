package appointment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repository) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock, NewRepository(db)
}

func sampleAppointment() *domain.Appointment {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ServiceCategory: "hair",
		Lastname:        "Novák",
		ProcedureID:     3,
		ProcedureName:   "Střih",
		Title:           "Novák 60min",
		Price:           450,
		DurationMinutes: 60,
		Start:           start,
		End:             start.Add(time.Hour),
	}
}

func TestCreate(t *testing.T) {
	_, mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO appointments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	got, err := repo.Create(context.Background(), sampleAppointment())
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolationIsSlotTaken(t *testing.T) {
	_, mock, repo := newMock(t)

	mock.ExpectQuery(`INSERT INTO appointments`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_appointments_category_start"})

	_, err := repo.Create(context.Background(), sampleAppointment())
	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	_, mock, repo := newMock(t)
	a := sampleAppointment()
	now := time.Now()

	rows := sqlmock.NewRows(columns).AddRow(
		int64(5), a.ServiceCategory, int64(42), a.Lastname, "novak@example.cz", nil,
		a.ProcedureID, a.ProcedureName, a.Title, a.Price, a.DurationMinutes,
		[]byte(`[{"procedureId":8,"name":"Maska","price":150,"durationMinutes":15}]`),
		"prosím okno", nil, false, a.Start, a.End, false, nil, now, now,
	)
	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE id = \$1`).WithArgs(int64(5)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), got.ID)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, int64(42), *got.CustomerID)
	require.NotNil(t, got.Email)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.StaffNotes)
	require.Len(t, got.ExtraProcedures, 1)
	assert.Equal(t, 15, got.ExtraProcedures[0].DurationMinutes)
	assert.Equal(t, 75, got.TotalDurationMinutes())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	_, mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM appointments`).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList_LocksRowsInsideTransaction(t *testing.T) {
	db, mock, repo := newMock(t)
	category := "hair"
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE service_category = \$1 AND end_at > \$2 AND start_at < \$3 AND canceled = \$4 ORDER BY start_at ASC FOR UPDATE`).
		WithArgs(category, from, to, false).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	got, err := repo.List(ctx, domain.AppointmentsFilter{ServiceCategory: &category, From: &from, To: &to})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoLockOutsideTransaction(t *testing.T) {
	_, mock, repo := newMock(t)
	customer := int64(42)

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE customer_id = \$1 ORDER BY start_at ASC$`).
		WithArgs(customer).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.List(context.Background(), domain.AppointmentsFilter{CustomerID: &customer, IncludeCanceled: true})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCanceled_NotFound(t *testing.T) {
	_, mock, repo := newMock(t)

	mock.ExpectExec(`UPDATE appointments SET canceled = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetCanceled(context.Background(), 7, true, time.Now())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdate_UniqueViolationIsSlotTaken(t *testing.T) {
	_, mock, repo := newMock(t)
	a := sampleAppointment()
	a.ID = 3

	mock.ExpectExec(`UPDATE appointments SET`).WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Update(context.Background(), a)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestDelete(t *testing.T) {
	_, mock, repo := newMock(t)

	mock.ExpectExec(`DELETE FROM appointments WHERE id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByProcedure(t *testing.T) {
	_, mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT 1 FROM appointments`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	exists, err := repo.ExistsByProcedure(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, exists)

	mock.ExpectQuery(`SELECT 1 FROM appointments`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	exists, err = repo.ExistsByProcedure(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, exists)
}

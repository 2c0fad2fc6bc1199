package role

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
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

func TestInsertIfAbsent(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`INSERT INTO roles \(name,display_name,is_category\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("hair", "Kadeřnictví", true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO roles`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.InsertIfAbsent(context.Background(), domain.Role{Name: "hair", DisplayName: "Kadeřnictví", IsCategory: true})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(context.Background(), domain.Role{Name: "hair", DisplayName: "Kadeřnictví", IsCategory: true})
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestCreate_Duplicate(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`INSERT INTO roles`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Role{Name: "nails"})
	assert.ErrorIs(t, err, ErrDuplicateRole)
}

func TestList_OnlyCategories(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, display_name, is_category, created_at FROM roles WHERE is_category = \$1 ORDER BY id ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(3), "cosmetics", "Kosmetika", true, now).
			AddRow(int64(4), "hair", "Kadeřnictví", true, now))

	got, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hair", got[1].Name)
}

func TestGetByName_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM roles WHERE name = \$1`).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByName(context.Background(), "nails")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

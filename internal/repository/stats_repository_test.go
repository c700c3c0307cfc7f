package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/escolaware/escola-api/internal/models"
)

func TestStatsRepositoryCountTable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountTable(context.Background(), "users")
	require.NoError(t, err)
	require.Equal(t, 12, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryCountTableUnknown(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	_, err := repo.CountTable(context.Background(), "pg_catalog")
	require.Error(t, err)
}

func TestStatsRepositoryCountUsersByRole(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"role", "count"}).
		AddRow(models.RoleStudent, 9).
		AddRow(models.RoleTeacher, 3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role ASC")).
		WillReturnRows(rows)

	counts, err := repo.CountUsersByRole(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, models.RoleStudent, counts[0].Role)
	require.Equal(t, 9, counts[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryTopSchoolsByUsers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	rows := sqlmock.NewRows([]string{"school_id", "school_name", "user_count"}).
		AddRow(int64(1), "Escola Central", 8).
		AddRow(int64(2), "Escola Norte", 4)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY user_count DESC, s.id ASC")).
		WithArgs(5).
		WillReturnRows(rows)

	ranks, err := repo.TopSchoolsByUsers(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	require.Equal(t, "Escola Central", ranks[0].SchoolName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepositoryCountEnrollmentsBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE school_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountEnrollmentsBySchool(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 5, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

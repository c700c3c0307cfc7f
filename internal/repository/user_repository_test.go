package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/escolaware/escola-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func userRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "login", "password_hash", "role",
		"cpf", "rg", "birth_date", "marital_status", "phone", "mobile",
		"city", "neighborhood", "state", "street", "number", "bio",
		"school_id", "photo_filename", "created_at", "updated_at",
	}).AddRow(
		int64(7), "Maria Silva", "maria@example.com", "maria", "hash", models.RoleStudent,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil, now, now,
	)
}

func TestUserRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 LIMIT 1")).
		WithArgs(int64(7)).
		WillReturnRows(userRows())

	user, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "maria@example.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 LIMIT 1")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIdentifierMatchesLoginOrEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE login = $1 OR LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("maria@example.com").
		WillReturnRows(userRows())

	user, err := repo.FindByIdentifier(context.Background(), "maria@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryExistsByEmailOrLogin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1) OR login = $2")).
		WithArgs("maria@example.com", "maria").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.ExistsByEmailOrLogin(context.Background(), "maria@example.com", "maria")
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	role := models.RoleStudent
	schoolID := int64(1)
	mock.ExpectQuery(regexp.QuoteMeta("AND role = $1 AND school_id = $2 AND (LOWER(name) LIKE $3 OR LOWER(email) LIKE $3) ORDER BY name ASC")).
		WithArgs(role, schoolID, "%maria%").
		WillReturnRows(userRows())

	users, err := repo.List(context.Background(), models.UserFilter{
		Role:     &role,
		SchoolID: &schoolID,
		Search:   "Maria",
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDeleteNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 404)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1")).
		WithArgs(int64(7), "newhash", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 7, "newhash", now))
	require.NoError(t, mock.ExpectationsWereMet())
}

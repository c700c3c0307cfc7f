package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolaware/escola-api/internal/models"
)

func TestErrorLogRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewErrorLogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO error_logs")).
		WithArgs("GET", "/api/users/99", 404, "user not found", "", "10.0.0.1", "curl/8.0", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.ErrorLog{
		Method:    "GET",
		Route:     "/api/users/99",
		Status:    404,
		Message:   "user not found",
		IPAddress: "10.0.0.1",
		UserAgent: "curl/8.0",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewErrorLogRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "method", "route", "status", "message", "stack", "ip_address", "user_agent", "created_at"}).
		AddRow(2, "GET", "/api/users/99", 404, "user not found", "", "10.0.0.1", "curl/8.0", now).
		AddRow(1, "POST", "/api/matriculas", 500, "internal server error", "pq: connection refused", "10.0.0.2", "curl/8.0", now.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, method, route, status, message, stack, ip_address, user_agent, created_at FROM error_logs ORDER BY created_at DESC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	logs, err := repo.ListRecent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "user not found", logs[0].Message)
	assert.Equal(t, "pq: connection refused", logs[1].Stack)
	assert.NoError(t, mock.ExpectationsWereMet())
}

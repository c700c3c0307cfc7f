package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/repository"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
)

func newErrorLogRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := repository.NewErrorLogRepository(sqlx.NewDb(db, "sqlmock"))

	r := gin.New()
	r.Use(ErrorLog(repo, zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "user not found"))
	})
	r.GET("/boom", func(c *gin.Context) {
		cause := errors.New("pq: connection refused")
		response.Error(c, appErrors.Wrap(cause, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "internal server error"))
	})
	return r, mock, func() { db.Close() }
}

func TestErrorLogRecordsFailureMessage(t *testing.T) {
	r, mock, cleanup := newErrorLogRouter(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO error_logs")).
		WithArgs("GET", "/missing", http.StatusNotFound, "user not found", "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogRecordsCause(t *testing.T) {
	r, mock, cleanup := newErrorLogRouter(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO error_logs")).
		WithArgs("GET", "/boom", http.StatusInternalServerError, "internal server error", "pq: connection refused", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogSkipsSuccessfulRequest(t *testing.T) {
	r, mock, cleanup := newErrorLogRouter(t)
	defer cleanup()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	// no insert expected for a 2xx
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorLogInsertFailureDoesNotAffectResponse(t *testing.T) {
	r, mock, cleanup := newErrorLogRouter(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO error_logs")).
		WillReturnError(assert.AnError)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

// ErrorLogRepository appends diagnostic records for failed requests.
type ErrorLogRepository struct {
	db *sqlx.DB
}

// NewErrorLogRepository creates a new instance of ErrorLogRepository.
func NewErrorLogRepository(db *sqlx.DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

// Create appends one diagnostic record.
func (r *ErrorLogRepository) Create(ctx context.Context, log *models.ErrorLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO error_logs (method, route, status, message, stack, ip_address, user_agent, created_at)
		VALUES (:method, :route, :status, :message, :stack, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create error log: %w", err)
	}
	return nil
}

// ListRecent returns the n most recent diagnostic records.
func (r *ErrorLogRepository) ListRecent(ctx context.Context, n int) ([]models.ErrorLog, error) {
	const query = `SELECT id, method, route, status, message, stack, ip_address, user_agent, created_at FROM error_logs ORDER BY created_at DESC LIMIT $1`
	logs := []models.ErrorLog{}
	if err := r.db.SelectContext(ctx, &logs, query, n); err != nil {
		return nil, fmt.Errorf("list error logs: %w", err)
	}
	return logs, nil
}

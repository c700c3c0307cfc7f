package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

const classColumns = `id, name, description, teacher_id, school_id, start_time, end_time, days_of_week, status, max_students, created_at, updated_at`

// ClassRepository provides database access for scheduled groups (turmas).
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new instance of ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a class by identifier.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE id = $1 LIMIT 1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// List returns classes ordered by name, optionally scoped to a school.
func (r *ClassRepository) List(ctx context.Context, schoolID *int64) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE 1=1`, classColumns)
	var args []interface{}

	if schoolID != nil {
		args = append(args, *schoolID)
		query += fmt.Sprintf(" AND school_id = $%d", len(args))
	}

	query += " ORDER BY name ASC"

	classes := []models.Class{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// Create inserts a new class and fills in its generated id.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (name, description, teacher_id, school_id, start_time, end_time, days_of_week, status, max_students, created_at, updated_at)
		VALUES (:name, :description, :teacher_id, :school_id, :start_time, :end_time, :days_of_week, :status, :max_students, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, class)
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&class.ID); err != nil {
			return fmt.Errorf("scan created class id: %w", err)
		}
	}
	return nil
}

// Update persists mutable fields of a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, description = :description, teacher_id = :teacher_id, school_id = :school_id, start_time = :start_time, end_time = :end_time, days_of_week = :days_of_week, status = :status, max_students = :max_students, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class row.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM classes WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

const schoolColumns = `id, name, city, neighborhood, state, street, number, description, responsible_id, registered_at, created_at, updated_at`

// SchoolRepository provides database access for schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository creates a new instance of SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// FindByID returns a school by identifier.
func (r *SchoolRepository) FindByID(ctx context.Context, id int64) (*models.School, error) {
	query := fmt.Sprintf(`SELECT %s FROM schools WHERE id = $1 LIMIT 1`, schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find school by id: %w", err)
	}
	return &school, nil
}

// ExistsByName reports whether a school with the given name already exists.
func (r *SchoolRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT COUNT(*) FROM schools WHERE LOWER(name) = LOWER($1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return false, fmt.Errorf("check school uniqueness: %w", err)
	}
	return count > 0, nil
}

// List returns all schools ordered by name.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	query := fmt.Sprintf(`SELECT %s FROM schools ORDER BY name ASC`, schoolColumns)
	schools := []models.School{}
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// Create inserts a new school and fills in its generated id.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	now := time.Now().UTC()
	school.CreatedAt = now
	school.UpdatedAt = now
	if school.RegisteredAt.IsZero() {
		school.RegisteredAt = now
	}

	const query = `INSERT INTO schools (name, city, neighborhood, state, street, number, description, responsible_id, registered_at, created_at, updated_at)
		VALUES (:name, :city, :neighborhood, :state, :street, :number, :description, :responsible_id, :registered_at, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, school)
	if err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&school.ID); err != nil {
			return fmt.Errorf("scan created school id: %w", err)
		}
	}
	return nil
}

// Update persists mutable fields of a school.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schools SET name = :name, city = :city, neighborhood = :neighborhood, state = :state, street = :street, number = :number, description = :description, responsible_id = :responsible_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// Delete removes a school row.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM schools WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

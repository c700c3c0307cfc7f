package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

// StatsRepository provides the count and group-by primitives behind the
// dashboard. Every call hits the database; nothing is cached.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

var countableTables = map[string]struct{}{
	"users":        {},
	"schools":      {},
	"enrollments":  {},
	"courses":      {},
	"classes":      {},
	"audio_assets": {},
}

// CountTable returns the row count of one of the known entity tables.
func (r *StatsRepository) CountTable(ctx context.Context, table string) (int, error) {
	if _, ok := countableTables[table]; !ok {
		return 0, fmt.Errorf("unknown stats table %q", table)
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// CountUsersByRole returns user counts grouped by role tag.
func (r *StatsRepository) CountUsersByRole(ctx context.Context) ([]models.RoleCount, error) {
	const query = `SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role ASC`
	counts := []models.RoleCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	return counts, nil
}

// TopSchoolsByUsers returns the n schools with the most associated users.
// Ties break stably by school id ascending.
func (r *StatsRepository) TopSchoolsByUsers(ctx context.Context, n int) ([]models.SchoolUserCount, error) {
	const query = `SELECT s.id AS school_id, s.name AS school_name, COUNT(u.id) AS user_count
		FROM schools s
		LEFT JOIN users u ON u.school_id = s.id
		GROUP BY s.id, s.name
		ORDER BY user_count DESC, s.id ASC
		LIMIT $1`
	ranks := []models.SchoolUserCount{}
	if err := r.db.SelectContext(ctx, &ranks, query, n); err != nil {
		return nil, fmt.Errorf("rank schools by users: %w", err)
	}
	return ranks, nil
}

// CountUsersBySchool returns the user count scoped to one school.
func (r *StatsRepository) CountUsersBySchool(ctx context.Context, schoolID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE school_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, schoolID); err != nil {
		return 0, fmt.Errorf("count users by school: %w", err)
	}
	return count, nil
}

// CountEnrollmentsBySchool returns the enrollment count scoped to one school.
func (r *StatsRepository) CountEnrollmentsBySchool(ctx context.Context, schoolID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE school_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, schoolID); err != nil {
		return 0, fmt.Errorf("count enrollments by school: %w", err)
	}
	return count, nil
}

// CountClassesBySchool returns the class count scoped to one school.
func (r *StatsRepository) CountClassesBySchool(ctx context.Context, schoolID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM classes WHERE school_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, schoolID); err != nil {
		return 0, fmt.Errorf("count classes by school: %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

const enrollmentColumns = `id, user_id, school_id, course_price, billing_mode, installment_count, installment_value, recurring_value, first_payment_date, status, language_level, schedule_window, guardian_name, guardian_phone, created_at, updated_at`

// EnrollmentRepository provides database access for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// enrollmentRow flattens the enrollment join for scanning.
type enrollmentRow struct {
	models.Enrollment
	RefUserID    *int64           `db:"ref_user_id"`
	RefUserName  *string          `db:"ref_user_name"`
	RefUserEmail *string          `db:"ref_user_email"`
	RefUserRole  *models.UserRole `db:"ref_user_role"`
	RefSchoolID2 *int64           `db:"ref_school_id"`
	RefSchool    *string          `db:"ref_school_name"`
	RefCity      *string          `db:"ref_school_city"`
}

func (row enrollmentRow) detail() models.EnrollmentDetail {
	detail := models.EnrollmentDetail{Enrollment: row.Enrollment}
	if row.RefUserID != nil {
		detail.User = &models.UserSummary{ID: *row.RefUserID}
		if row.RefUserName != nil {
			detail.User.Name = *row.RefUserName
		}
		if row.RefUserEmail != nil {
			detail.User.Email = *row.RefUserEmail
		}
		if row.RefUserRole != nil {
			detail.User.Role = *row.RefUserRole
		}
	}
	if row.RefSchoolID2 != nil {
		detail.School = &models.SchoolSummary{ID: *row.RefSchoolID2}
		if row.RefSchool != nil {
			detail.School.Name = *row.RefSchool
		}
		if row.RefCity != nil {
			detail.School.City = *row.RefCity
		}
	}
	return detail
}

const enrollmentJoinSelect = `SELECT e.id, e.user_id, e.school_id, e.course_price, e.billing_mode, e.installment_count, e.installment_value, e.recurring_value, e.first_payment_date, e.status, e.language_level, e.schedule_window, e.guardian_name, e.guardian_phone, e.created_at, e.updated_at,
	u.id AS ref_user_id, u.name AS ref_user_name, u.email AS ref_user_email, u.role AS ref_user_role,
	s.id AS ref_school_id, s.name AS ref_school_name, s.city AS ref_school_city
	FROM enrollments e
	LEFT JOIN users u ON u.id = e.user_id
	LEFT JOIN schools s ON s.id = e.school_id`

// FindByID returns an enrollment with its user and school summaries.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := enrollmentJoinSelect + ` WHERE e.id = $1 LIMIT 1`
	var row enrollmentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment by id: %w", err)
	}
	detail := row.detail()
	return &detail, nil
}

// List returns enrollments most recent first, each with user and school
// summaries.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	query := enrollmentJoinSelect + ` ORDER BY e.created_at DESC`
	rows := []enrollmentRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	details := make([]models.EnrollmentDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.detail())
	}
	return details, nil
}

// ListBySchool returns a school's enrollments most recent first.
func (r *EnrollmentRepository) ListBySchool(ctx context.Context, schoolID int64) ([]models.EnrollmentDetail, error) {
	query := enrollmentJoinSelect + ` WHERE e.school_id = $1 ORDER BY e.created_at DESC`
	rows := []enrollmentRow{}
	if err := r.db.SelectContext(ctx, &rows, query, schoolID); err != nil {
		return nil, fmt.Errorf("list enrollments by school: %w", err)
	}
	details := make([]models.EnrollmentDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.detail())
	}
	return details, nil
}

// ListRecent returns the n most recently created enrollments with summaries.
func (r *EnrollmentRepository) ListRecent(ctx context.Context, n int) ([]models.EnrollmentDetail, error) {
	query := enrollmentJoinSelect + ` ORDER BY e.created_at DESC LIMIT $1`
	rows := []enrollmentRow{}
	if err := r.db.SelectContext(ctx, &rows, query, n); err != nil {
		return nil, fmt.Errorf("list recent enrollments: %w", err)
	}
	details := make([]models.EnrollmentDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.detail())
	}
	return details, nil
}

// Create inserts a new enrollment and fills in its generated id.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	const query = `INSERT INTO enrollments (user_id, school_id, course_price, billing_mode, installment_count, installment_value, recurring_value, first_payment_date, status, language_level, schedule_window, guardian_name, guardian_phone, created_at, updated_at)
		VALUES (:user_id, :school_id, :course_price, :billing_mode, :installment_count, :installment_value, :recurring_value, :first_payment_date, :status, :language_level, :schedule_window, :guardian_name, :guardian_phone, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, enrollment)
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&enrollment.ID); err != nil {
			return fmt.Errorf("scan created enrollment id: %w", err)
		}
	}
	return nil
}

// Update persists mutable fields of an enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET user_id = :user_id, school_id = :school_id, course_price = :course_price, billing_mode = :billing_mode, installment_count = :installment_count, installment_value = :installment_value, recurring_value = :recurring_value, first_payment_date = :first_payment_date, status = :status, language_level = :language_level, schedule_window = :schedule_window, guardian_name = :guardian_name, guardian_phone = :guardian_phone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment row.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

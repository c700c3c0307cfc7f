package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

const userColumns = `id, name, email, login, password_hash, role, cpf, rg, birth_date, marital_status, phone, mobile, city, neighborhood, state, street, number, bio, school_id, photo_filename, created_at, updated_at`

// UserRepository provides database access for identity records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByIdentifier returns a user whose login OR email equals the
// identifier. Used by the login flow.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1 OR LOWER(email) = LOWER($1) LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, identifier); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return &user, nil
}

// ExistsByEmailOrLogin reports whether any user already holds the email or
// the login. Used as the duplicate precheck before registration.
func (r *UserRepository) ExistsByEmailOrLogin(ctx context.Context, email, login string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1) OR login = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, email, login); err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return count > 0, nil
}

// List returns users matching the filter, ordered by name.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE 1=1`, userColumns)
	var args []interface{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.SchoolID != nil {
		args = append(args, *filter.SchoolID)
		query += fmt.Sprintf(" AND school_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		query += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY name ASC"

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (name, email, login, password_hash, role, cpf, rg, birth_date, marital_status, phone, mobile, city, neighborhood, state, street, number, bio, school_id, photo_filename, created_at, updated_at)
		VALUES (:name, :email, :login, :password_hash, :role, :cpf, :rg, :birth_date, :marital_status, :phone, :mobile, :city, :neighborhood, :state, :street, :number, :bio, :school_id, :photo_filename, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&user.ID); err != nil {
			return fmt.Errorf("scan created user id: %w", err)
		}
	}
	return nil
}

// Update persists mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET name = :name, email = :email, login = :login, role = :role, cpf = :cpf, rg = :rg, birth_date = :birth_date, marital_status = :marital_status, phone = :phone, mobile = :mobile, city = :city, neighborhood = :neighborhood, state = :state, street = :street, number = :number, bio = :bio, school_id = :school_id, photo_filename = :photo_filename, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Delete removes a user row. Referencing rows make the statement fail with
// a foreign key violation which callers surface as a conflict.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

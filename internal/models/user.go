package models

import "time"

// UserRole enumerates the closed set of role tags. The role is stored and
// transported as text and rejected at the API boundary when unknown.
type UserRole string

const (
	RoleManager   UserRole = "MANAGER"
	RoleDirector  UserRole = "DIRECTOR"
	RoleSecretary UserRole = "SECRETARY"
	RoleTeacher   UserRole = "TEACHER"
	RoleStudent   UserRole = "STUDENT"
)

// User represents an identity record stored in the users table. Email and
// login are each unique across users.
type User struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Email         string     `db:"email" json:"email"`
	Login         string     `db:"login" json:"login"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Role          UserRole   `db:"role" json:"role"`
	CPF           *string    `db:"cpf" json:"cpf,omitempty"`
	RG            *string    `db:"rg" json:"rg,omitempty"`
	BirthDate     *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	MaritalStatus *string    `db:"marital_status" json:"marital_status,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Mobile        *string    `db:"mobile" json:"mobile,omitempty"`
	City          *string    `db:"city" json:"city,omitempty"`
	Neighborhood  *string    `db:"neighborhood" json:"neighborhood,omitempty"`
	State         *string    `db:"state" json:"state,omitempty"`
	Street        *string    `db:"street" json:"street,omitempty"`
	Number        *string    `db:"number" json:"number,omitempty"`
	Bio           *string    `db:"bio" json:"bio,omitempty"`
	SchoolID      *int64     `db:"school_id" json:"school_id,omitempty"`
	PhotoFilename *string    `db:"photo_filename" json:"photo_filename,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// UserSummary is the shallow user projection embedded in related entities.
type UserSummary struct {
	ID    int64    `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Email string   `db:"email" json:"email"`
	Role  UserRole `db:"role" json:"role"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	SchoolID *int64
	Search   string
}

// ValidRole reports whether the given value names a known role tag.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleManager, RoleDirector, RoleSecretary, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

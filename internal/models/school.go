package models

import "time"

// School represents an organizational unit. The name is unique across
// schools; users, enrollments and classes reference their school by id.
type School struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	City          *string   `db:"city" json:"city,omitempty"`
	Neighborhood  *string   `db:"neighborhood" json:"neighborhood,omitempty"`
	State         *string   `db:"state" json:"state,omitempty"`
	Street        *string   `db:"street" json:"street,omitempty"`
	Number        *string   `db:"number" json:"number,omitempty"`
	Description   *string   `db:"description" json:"description,omitempty"`
	ResponsibleID *int64    `db:"responsible_id" json:"responsible_id,omitempty"`
	RegisteredAt  time.Time `db:"registered_at" json:"registered_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolSummary is the shallow school projection embedded in related entities.
type SchoolSummary struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	City string `db:"city" json:"city,omitempty"`
}

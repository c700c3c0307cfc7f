package models

import "time"

// CourseStatus enumerates catalog states for a course offering.
type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseInactive CourseStatus = "inactive"
	CourseDraft    CourseStatus = "draft"
)

// Course is a catalog offering. It is not linked to enrollments by foreign
// key; enrollments carry their own price and terms.
type Course struct {
	ID           int64        `db:"id" json:"id"`
	Title        string       `db:"title" json:"title"`
	Description  *string      `db:"description" json:"description,omitempty"`
	Category     *string      `db:"category" json:"category,omitempty"`
	Level        *string      `db:"level" json:"level,omitempty"`
	Duration     *string      `db:"duration" json:"duration,omitempty"`
	Price        float64      `db:"price" json:"price"`
	Status       CourseStatus `db:"status" json:"status"`
	Tags         *string      `db:"tags" json:"tags,omitempty"`
	InstructorID *int64       `db:"instructor_id" json:"instructor_id,omitempty"`
	Attachment   *string      `db:"attachment" json:"attachment,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

func ValidCourseStatus(s CourseStatus) bool {
	switch s {
	case CourseActive, CourseInactive, CourseDraft:
		return true
	}
	return false
}

package models

import "time"

// ClassStatus enumerates scheduled-group states.
type ClassStatus string

const (
	ClassActive   ClassStatus = "active"
	ClassInactive ClassStatus = "inactive"
	ClassFull     ClassStatus = "full"
)

// Class ("turma") is a scheduled group tied to a school, optionally led by
// a teacher. Times are wall-clock HH:MM strings; days of week are a
// comma-separated list (e.g. "mon,wed,fri").
type Class struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description *string     `db:"description" json:"description,omitempty"`
	TeacherID   *int64      `db:"teacher_id" json:"teacher_id,omitempty"`
	SchoolID    *int64      `db:"school_id" json:"school_id,omitempty"`
	StartTime   *string     `db:"start_time" json:"start_time,omitempty"`
	EndTime     *string     `db:"end_time" json:"end_time,omitempty"`
	DaysOfWeek  *string     `db:"days_of_week" json:"days_of_week,omitempty"`
	Status      ClassStatus `db:"status" json:"status"`
	MaxStudents int         `db:"max_students" json:"max_students"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

func ValidClassStatus(s ClassStatus) bool {
	switch s {
	case ClassActive, ClassInactive, ClassFull:
		return true
	}
	return false
}

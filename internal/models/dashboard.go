package models

// RoleCount is one bucket of the users-by-role grouping.
type RoleCount struct {
	Role  UserRole `db:"role" json:"role"`
	Count int      `db:"count" json:"count"`
}

// SchoolUserCount ranks a school by its associated user count.
type SchoolUserCount struct {
	SchoolID   int64  `db:"school_id" json:"school_id"`
	SchoolName string `db:"school_name" json:"school_name"`
	UserCount  int    `db:"user_count" json:"user_count"`
}

// GlobalStats is the summary view across all entities.
type GlobalStats struct {
	Users             int                `json:"users"`
	Schools           int                `json:"schools"`
	Enrollments       int                `json:"enrollments"`
	Courses           int                `json:"courses"`
	Classes           int                `json:"classes"`
	AudioAssets       int                `json:"audio_assets"`
	UsersByRole       []RoleCount        `json:"users_by_role"`
	RecentEnrollments []EnrollmentDetail `json:"recent_enrollments"`
	TopSchools        []SchoolUserCount  `json:"top_schools"`
}

// SchoolStats is the per-school summary view.
type SchoolStats struct {
	SchoolID    int64              `json:"school_id"`
	Users       int                `json:"users"`
	Enrollments int                `json:"enrollments"`
	Classes     int                `json:"classes"`
	Roster      []EnrollmentDetail `json:"roster"`
}

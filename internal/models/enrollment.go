package models

import "time"

// BillingMode enumerates how an enrollment is charged.
type BillingMode string

const (
	BillingInstallment  BillingMode = "installment"
	BillingSubscription BillingMode = "subscription"
)

// EnrollmentStatus enumerates operator-set enrollment states. No automatic
// transitions exist.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentInactive  EnrollmentStatus = "inactive"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

// Enrollment binds a user to a school with billing terms. Installment count
// and amount apply in installment mode; the recurring amount applies in
// subscription mode.
type Enrollment struct {
	ID               int64            `db:"id" json:"id"`
	UserID           int64            `db:"user_id" json:"user_id"`
	SchoolID         *int64           `db:"school_id" json:"school_id,omitempty"`
	CoursePrice      float64          `db:"course_price" json:"course_price"`
	BillingMode      BillingMode      `db:"billing_mode" json:"billing_mode"`
	InstallmentCount *int             `db:"installment_count" json:"installment_count,omitempty"`
	InstallmentValue *float64         `db:"installment_value" json:"installment_value,omitempty"`
	RecurringValue   *float64         `db:"recurring_value" json:"recurring_value,omitempty"`
	FirstPaymentDate *time.Time       `db:"first_payment_date" json:"first_payment_date,omitempty"`
	Status           EnrollmentStatus `db:"status" json:"status"`
	LanguageLevel    *string          `db:"language_level" json:"language_level,omitempty"`
	ScheduleWindow   *string          `db:"schedule_window" json:"schedule_window,omitempty"`
	GuardianName     *string          `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone    *string          `db:"guardian_phone" json:"guardian_phone,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail pairs an enrollment with shallow user and school
// summaries resolved by join.
type EnrollmentDetail struct {
	Enrollment
	User   *UserSummary   `json:"user,omitempty"`
	School *SchoolSummary `json:"school,omitempty"`
}

func ValidBillingMode(m BillingMode) bool {
	return m == BillingInstallment || m == BillingSubscription
}

func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentActive, EnrollmentInactive, EnrollmentSuspended:
		return true
	}
	return false
}

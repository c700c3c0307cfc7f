package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

type enrollmentUserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// CreateEnrollmentRequest represents payload for creating enrollments.
type CreateEnrollmentRequest struct {
	UserID           int64                   `json:"user_id" validate:"required,gt=0"`
	SchoolID         *int64                  `json:"school_id"`
	CoursePrice      float64                 `json:"course_price" validate:"gte=0"`
	BillingMode      models.BillingMode      `json:"billing_mode" validate:"required,oneof=installment subscription"`
	InstallmentCount *int                    `json:"installment_count"`
	InstallmentValue *float64                `json:"installment_value"`
	RecurringValue   *float64                `json:"recurring_value"`
	FirstPaymentDate *time.Time              `json:"first_payment_date"`
	Status           models.EnrollmentStatus `json:"status" validate:"required,oneof=active inactive suspended"`
	LanguageLevel    *string                 `json:"language_level"`
	ScheduleWindow   *string                 `json:"schedule_window"`
	GuardianName     *string                 `json:"guardian_name"`
	GuardianPhone    *string                 `json:"guardian_phone"`
}

// UpdateEnrollmentRequest is a partial update: nil fields keep their prior
// value.
type UpdateEnrollmentRequest struct {
	UserID           *int64                   `json:"user_id" validate:"omitempty,gt=0"`
	SchoolID         *int64                   `json:"school_id"`
	CoursePrice      *float64                 `json:"course_price" validate:"omitempty,gte=0"`
	BillingMode      *models.BillingMode      `json:"billing_mode" validate:"omitempty,oneof=installment subscription"`
	InstallmentCount *int                     `json:"installment_count"`
	InstallmentValue *float64                 `json:"installment_value"`
	RecurringValue   *float64                 `json:"recurring_value"`
	FirstPaymentDate *time.Time               `json:"first_payment_date"`
	Status           *models.EnrollmentStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	LanguageLevel    *string                  `json:"language_level"`
	ScheduleWindow   *string                  `json:"schedule_window"`
	GuardianName     *string                  `json:"guardian_name"`
	GuardianPhone    *string                  `json:"guardian_phone"`
}

// EnrollmentService handles enrollment workflows. Status is operator-set;
// no automatic transitions exist.
type EnrollmentService struct {
	repo      enrollmentRepository
	users     enrollmentUserFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService creates an instance of EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, users enrollmentUserFinder, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns enrollments most recent first, with user and school
// summaries resolved.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Create stores an enrollment. The referenced user must exist; the check
// runs before the write so nothing is stored on failure.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create enrollment payload")
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrolled user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled user")
	}

	enrollment := &models.Enrollment{
		UserID:           req.UserID,
		SchoolID:         req.SchoolID,
		CoursePrice:      req.CoursePrice,
		BillingMode:      req.BillingMode,
		InstallmentCount: req.InstallmentCount,
		InstallmentValue: req.InstallmentValue,
		RecurringValue:   req.RecurringValue,
		FirstPaymentDate: req.FirstPaymentDate,
		Status:           req.Status,
		LanguageLevel:    req.LanguageLevel,
		ScheduleWindow:   req.ScheduleWindow,
		GuardianName:     req.GuardianName,
		GuardianPhone:    req.GuardianPhone,
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	return s.Get(ctx, enrollment.ID)
}

// Update applies a partial update to an enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update enrollment payload")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	enrollment := detail.Enrollment
	if req.UserID != nil {
		if _, err := s.users.FindByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "enrolled user not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled user")
		}
		enrollment.UserID = *req.UserID
	}
	if req.SchoolID != nil {
		enrollment.SchoolID = req.SchoolID
	}
	if req.CoursePrice != nil {
		enrollment.CoursePrice = *req.CoursePrice
	}
	if req.BillingMode != nil {
		enrollment.BillingMode = *req.BillingMode
	}
	if req.InstallmentCount != nil {
		enrollment.InstallmentCount = req.InstallmentCount
	}
	if req.InstallmentValue != nil {
		enrollment.InstallmentValue = req.InstallmentValue
	}
	if req.RecurringValue != nil {
		enrollment.RecurringValue = req.RecurringValue
	}
	if req.FirstPaymentDate != nil {
		enrollment.FirstPaymentDate = req.FirstPaymentDate
	}
	if req.Status != nil {
		enrollment.Status = *req.Status
	}
	if req.LanguageLevel != nil {
		enrollment.LanguageLevel = req.LanguageLevel
	}
	if req.ScheduleWindow != nil {
		enrollment.ScheduleWindow = req.ScheduleWindow
	}
	if req.GuardianName != nil {
		enrollment.GuardianName = req.GuardianName
	}
	if req.GuardianPhone != nil {
		enrollment.GuardianPhone = req.GuardianPhone
	}

	if err := s.repo.Update(ctx, &enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	return s.Get(ctx, enrollment.ID)
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

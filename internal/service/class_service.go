package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, schoolID *int64) ([]models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// CreateClassRequest represents payload for creating classes.
type CreateClassRequest struct {
	Name        string             `json:"name" validate:"required"`
	Description *string            `json:"description"`
	TeacherID   *int64             `json:"teacher_id"`
	SchoolID    *int64             `json:"school_id"`
	StartTime   *string            `json:"start_time"`
	EndTime     *string            `json:"end_time"`
	DaysOfWeek  *string            `json:"days_of_week"`
	Status      models.ClassStatus `json:"status" validate:"required,oneof=active inactive full"`
	MaxStudents int                `json:"max_students" validate:"gte=0"`
}

// UpdateClassRequest is a partial update: nil fields keep their prior value.
type UpdateClassRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	TeacherID   *int64              `json:"teacher_id"`
	SchoolID    *int64              `json:"school_id"`
	StartTime   *string             `json:"start_time"`
	EndTime     *string             `json:"end_time"`
	DaysOfWeek  *string             `json:"days_of_week"`
	Status      *models.ClassStatus `json:"status" validate:"omitempty,oneof=active inactive full"`
	MaxStudents *int                `json:"max_students" validate:"omitempty,gte=0"`
}

// ClassService handles scheduled group (turma) workflows.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService creates an instance of ClassService.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// List returns classes ordered by name, optionally scoped to a school.
func (s *ClassService) List(ctx context.Context, schoolID *int64) ([]models.Class, error) {
	classes, err := s.repo.List(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create stores a class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create class payload")
	}

	class := &models.Class{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   req.TeacherID,
		SchoolID:    req.SchoolID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		DaysOfWeek:  req.DaysOfWeek,
		Status:      req.Status,
		MaxStudents: req.MaxStudents,
	}

	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	return class, nil
}

// Update applies a partial update to a class.
func (s *ClassService) Update(ctx context.Context, id int64, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update class payload")
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Description != nil {
		class.Description = req.Description
	}
	if req.TeacherID != nil {
		class.TeacherID = req.TeacherID
	}
	if req.SchoolID != nil {
		class.SchoolID = req.SchoolID
	}
	if req.StartTime != nil {
		class.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		class.EndTime = req.EndTime
	}
	if req.DaysOfWeek != nil {
		class.DaysOfWeek = req.DaysOfWeek
	}
	if req.Status != nil {
		class.Status = *req.Status
	}
	if req.MaxStudents != nil {
		class.MaxStudents = *req.MaxStudents
	}

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}

	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

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

type courseRepository interface {
	List(ctx context.Context, category, search string) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CreateCourseRequest represents payload for creating courses. The
// attachment filename, when present, was already written to storage by the
// handler.
type CreateCourseRequest struct {
	Title        string              `json:"title" validate:"required"`
	Description  *string             `json:"description"`
	Category     *string             `json:"category"`
	Level        *string             `json:"level"`
	Duration     *string             `json:"duration"`
	Price        float64             `json:"price" validate:"gte=0"`
	Status       models.CourseStatus `json:"status" validate:"required,oneof=active inactive draft"`
	Tags         *string             `json:"tags"`
	InstructorID *int64              `json:"instructor_id"`
	Attachment   *string             `json:"-"`
}

// UpdateCourseRequest is a partial update: nil fields keep their prior
// value.
type UpdateCourseRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Category     *string              `json:"category"`
	Level        *string              `json:"level"`
	Duration     *string              `json:"duration"`
	Price        *float64             `json:"price" validate:"omitempty,gte=0"`
	Status       *models.CourseStatus `json:"status" validate:"omitempty,oneof=active inactive draft"`
	Tags         *string              `json:"tags"`
	InstructorID *int64               `json:"instructor_id"`
	Attachment   *string              `json:"-"`
}

// CourseService handles catalog course workflows.
type CourseService struct {
	repo      courseRepository
	uploads   fileRemover
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates an instance of CourseService.
func NewCourseService(repo courseRepository, uploads fileRemover, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, uploads: uploads, validator: validate, logger: logger}
}

// List returns courses ordered by title.
func (s *CourseService) List(ctx context.Context, category, search string) ([]models.Course, error) {
	courses, err := s.repo.List(ctx, category, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a course. No duplicate-title policy applies.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create course payload")
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Duration:     req.Duration,
		Price:        req.Price,
		Status:       req.Status,
		Tags:         req.Tags,
		InstructorID: req.InstructorID,
		Attachment:   req.Attachment,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	return course, nil
}

// Update applies a partial update. A new attachment replaces the previous
// one; the old file is removed best-effort from storage.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	previousAttachment := ""
	if req.Attachment != nil && course.Attachment != nil && *course.Attachment != *req.Attachment {
		previousAttachment = *course.Attachment
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Category != nil {
		course.Category = req.Category
	}
	if req.Level != nil {
		course.Level = req.Level
	}
	if req.Duration != nil {
		course.Duration = req.Duration
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.Tags != nil {
		course.Tags = req.Tags
	}
	if req.InstructorID != nil {
		course.InstructorID = req.InstructorID
	}
	if req.Attachment != nil {
		course.Attachment = req.Attachment
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	if previousAttachment != "" && s.uploads != nil {
		if !s.uploads.RemoveBest(previousAttachment) {
			s.logger.Warn("previous course attachment not found for removal", zap.String("filename", previousAttachment))
		}
	}

	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

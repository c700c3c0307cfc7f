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

type schoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	FindByID(ctx context.Context, id int64) (*models.School, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id int64) error
}

// CreateSchoolRequest represents payload for registering a school.
type CreateSchoolRequest struct {
	Name          string     `json:"name" validate:"required"`
	City          *string    `json:"city"`
	Neighborhood  *string    `json:"neighborhood"`
	State         *string    `json:"state"`
	Street        *string    `json:"street"`
	Number        *string    `json:"number"`
	Description   *string    `json:"description"`
	ResponsibleID *int64     `json:"responsible_id"`
	RegisteredAt  *time.Time `json:"registered_at"`
}

// UpdateSchoolRequest is a partial update: nil fields keep their prior value.
type UpdateSchoolRequest struct {
	Name          *string `json:"name"`
	City          *string `json:"city"`
	Neighborhood  *string `json:"neighborhood"`
	State         *string `json:"state"`
	Street        *string `json:"street"`
	Number        *string `json:"number"`
	Description   *string `json:"description"`
	ResponsibleID *int64  `json:"responsible_id"`
}

// SchoolService handles school workflows.
type SchoolService struct {
	repo      schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService creates an instance of SchoolService.
func NewSchoolService(repo schoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SchoolService{repo: repo, validator: validate, logger: logger}
}

// List returns schools ordered by name.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, nil
}

// Get returns a school by id.
func (s *SchoolService) Get(ctx context.Context, id int64) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	return school, nil
}

// Create registers a school. A taken name yields ErrDuplicate and performs
// no write; the handler reports it as an exists result.
func (s *SchoolService) Create(ctx context.Context, req CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create school payload")
	}

	taken, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check school uniqueness")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "school name already exists")
	}

	school := &models.School{
		Name:          req.Name,
		City:          req.City,
		Neighborhood:  req.Neighborhood,
		State:         req.State,
		Street:        req.Street,
		Number:        req.Number,
		Description:   req.Description,
		ResponsibleID: req.ResponsibleID,
	}
	if req.RegisteredAt != nil {
		school.RegisteredAt = *req.RegisteredAt
	}

	if err := s.repo.Create(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}

	return school, nil
}

// Update applies a partial update to a school.
func (s *SchoolService) Update(ctx context.Context, id int64, req UpdateSchoolRequest) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}

	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.City != nil {
		school.City = req.City
	}
	if req.Neighborhood != nil {
		school.Neighborhood = req.Neighborhood
	}
	if req.State != nil {
		school.State = req.State
	}
	if req.Street != nil {
		school.Street = req.Street
	}
	if req.Number != nil {
		school.Number = req.Number
	}
	if req.Description != nil {
		school.Description = req.Description
	}
	if req.ResponsibleID != nil {
		school.ResponsibleID = req.ResponsibleID
	}

	if err := s.repo.Update(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update school")
	}

	return school, nil
}

// Delete removes a school. Dependent users, enrollments or classes make the
// delete fail with a conflict, identically on every attempt.
func (s *SchoolService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		if isConflict(err) {
			return appErrors.Clone(appErrors.ErrConflict, "school is referenced by other records")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}
	return nil
}

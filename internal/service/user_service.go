package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/escolaware/escola-api/internal/models"
	"github.com/escolaware/escola-api/pkg/database"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

// isConflict reports a delete blocked by dependent rows.
func isConflict(err error) bool {
	return database.IsForeignKeyViolation(err)
}

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByEmailOrLogin(ctx context.Context, email, login string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// fileRemover deletes a previously stored upload best-effort.
type fileRemover interface {
	RemoveBest(filename string) bool
}

// RegisterUserRequest represents payload for registering users. Multipart
// string fields are parsed into typed values before reaching this layer.
type RegisterUserRequest struct {
	Name          string          `json:"name" validate:"required"`
	Email         string          `json:"email" validate:"required,email"`
	Login         string          `json:"login" validate:"required"`
	Password      string          `json:"password" validate:"required,min=6"`
	Role          models.UserRole `json:"role" validate:"required,oneof=MANAGER DIRECTOR SECRETARY TEACHER STUDENT"`
	CPF           *string         `json:"cpf"`
	RG            *string         `json:"rg"`
	BirthDate     *time.Time      `json:"birth_date"`
	MaritalStatus *string         `json:"marital_status"`
	Phone         *string         `json:"phone"`
	Mobile        *string         `json:"mobile"`
	City          *string         `json:"city"`
	Neighborhood  *string         `json:"neighborhood"`
	State         *string         `json:"state"`
	Street        *string         `json:"street"`
	Number        *string         `json:"number"`
	Bio           *string         `json:"bio"`
	SchoolID      *int64          `json:"school_id"`
	PhotoFilename *string         `json:"-"`
}

// UpdateUserRequest is a partial update: nil fields keep their prior value.
type UpdateUserRequest struct {
	Name          *string          `json:"name"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Login         *string          `json:"login"`
	Role          *models.UserRole `json:"role" validate:"omitempty,oneof=MANAGER DIRECTOR SECRETARY TEACHER STUDENT"`
	CPF           *string          `json:"cpf"`
	RG            *string          `json:"rg"`
	BirthDate     *time.Time       `json:"birth_date"`
	MaritalStatus *string          `json:"marital_status"`
	Phone         *string          `json:"phone"`
	Mobile        *string          `json:"mobile"`
	City          *string          `json:"city"`
	Neighborhood  *string          `json:"neighborhood"`
	State         *string          `json:"state"`
	Street        *string          `json:"street"`
	Number        *string          `json:"number"`
	Bio           *string          `json:"bio"`
	SchoolID      *int64           `json:"school_id"`
	PhotoFilename *string          `json:"-"`
}

// UserService handles identity record workflows.
type UserService struct {
	repo      userRepository
	uploads   fileRemover
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, uploads fileRemover, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, uploads: uploads, validator: validate, logger: logger}
}

// List returns users ordered by name.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Register creates a user. A taken email or login yields ErrDuplicate and
// performs no write; the register handler reports it as an exists result.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	taken, err := s.repo.ExistsByEmailOrLogin(ctx, req.Email, req.Login)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check user uniqueness")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "email or login already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:          req.Name,
		Email:         strings.ToLower(req.Email),
		Login:         req.Login,
		PasswordHash:  string(hash),
		Role:          req.Role,
		CPF:           req.CPF,
		RG:            req.RG,
		BirthDate:     req.BirthDate,
		MaritalStatus: req.MaritalStatus,
		Phone:         req.Phone,
		Mobile:        req.Mobile,
		City:          req.City,
		Neighborhood:  req.Neighborhood,
		State:         req.State,
		Street:        req.Street,
		Number:        req.Number,
		Bio:           req.Bio,
		SchoolID:      req.SchoolID,
		PhotoFilename: req.PhotoFilename,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	return user, nil
}

// Update applies a partial update. A new photo filename replaces the
// previous one; the old file is removed best-effort from storage.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	previousPhoto := ""
	if req.PhotoFilename != nil && user.PhotoFilename != nil && *user.PhotoFilename != *req.PhotoFilename {
		previousPhoto = *user.PhotoFilename
	}

	applyUserUpdate(user, req)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	if previousPhoto != "" && s.uploads != nil {
		if !s.uploads.RemoveBest(previousPhoto) {
			s.logger.Warn("previous profile photo not found for removal", zap.String("filename", previousPhoto))
		}
	}

	return user, nil
}

func applyUserUpdate(user *models.User, req UpdateUserRequest) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Login != nil {
		user.Login = *req.Login
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.CPF != nil {
		user.CPF = req.CPF
	}
	if req.RG != nil {
		user.RG = req.RG
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}
	if req.MaritalStatus != nil {
		user.MaritalStatus = req.MaritalStatus
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Mobile != nil {
		user.Mobile = req.Mobile
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.Neighborhood != nil {
		user.Neighborhood = req.Neighborhood
	}
	if req.State != nil {
		user.State = req.State
	}
	if req.Street != nil {
		user.Street = req.Street
	}
	if req.Number != nil {
		user.Number = req.Number
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.SchoolID != nil {
		user.SchoolID = req.SchoolID
	}
	if req.PhotoFilename != nil {
		user.PhotoFilename = req.PhotoFilename
	}
}

// Delete removes a user. Rows still referencing the user surface as a
// conflict, identically on every attempt.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		if isConflict(err) {
			return appErrors.Clone(appErrors.ErrConflict, "user is referenced by other records")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}

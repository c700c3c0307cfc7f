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

type audioRepository interface {
	List(ctx context.Context, ownerID *int64) ([]models.AudioAsset, error)
	FindByID(ctx context.Context, id int64) (*models.AudioAsset, error)
	Create(ctx context.Context, asset *models.AudioAsset) error
	Update(ctx context.Context, asset *models.AudioAsset) error
	Delete(ctx context.Context, id int64) error
}

// CreateAudioRequest represents payload for creating audio assets. The
// filenames were already written to storage by the handler.
type CreateAudioRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description *string            `json:"description"`
	OwnerID     int64              `json:"owner_id" validate:"required,gt=0"`
	Category    *string            `json:"category"`
	Duration    *string            `json:"duration"`
	Status      models.AudioStatus `json:"status" validate:"required,oneof=active inactive"`
	Filenames   []string           `json:"-"`
}

// UpdateAudioRequest is a partial update: nil fields keep their prior
// value. A non-nil Filenames slice replaces the stored list entirely.
type UpdateAudioRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	OwnerID     *int64              `json:"owner_id" validate:"omitempty,gt=0"`
	Category    *string             `json:"category"`
	Duration    *string             `json:"duration"`
	Status      *models.AudioStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	Filenames   []string            `json:"-"`
}

// AudioService handles audio asset workflows.
type AudioService struct {
	repo      audioRepository
	users     enrollmentUserFinder
	uploads   fileRemover
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAudioService creates an instance of AudioService.
func NewAudioService(repo audioRepository, users enrollmentUserFinder, uploads fileRemover, validate *validator.Validate, logger *zap.Logger) *AudioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AudioService{repo: repo, users: users, uploads: uploads, validator: validate, logger: logger}
}

// List returns audio assets most recent first, optionally scoped to an
// owner.
func (s *AudioService) List(ctx context.Context, ownerID *int64) ([]models.AudioAsset, error) {
	assets, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audio assets")
	}
	return assets, nil
}

// Get returns an audio asset by id.
func (s *AudioService) Get(ctx context.Context, id int64) (*models.AudioAsset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "audio asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audio asset")
	}
	return asset, nil
}

// Create stores an audio asset. The owning user must exist.
func (s *AudioService) Create(ctx context.Context, req CreateAudioRequest) (*models.AudioAsset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create audio payload")
	}

	if _, err := s.users.FindByID(ctx, req.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "owner user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner user")
	}

	asset := &models.AudioAsset{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     req.OwnerID,
		Category:    req.Category,
		Duration:    req.Duration,
		Status:      req.Status,
		Filenames:   models.StringList(req.Filenames),
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create audio asset")
	}

	return asset, nil
}

// Update applies a partial update. A replacement filename list removes the
// files it no longer mentions, best-effort.
func (s *AudioService) Update(ctx context.Context, id int64, req UpdateAudioRequest) (*models.AudioAsset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update audio payload")
	}

	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "audio asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audio asset")
	}

	var dropped []string
	if req.Filenames != nil {
		kept := make(map[string]struct{}, len(req.Filenames))
		for _, name := range req.Filenames {
			kept[name] = struct{}{}
		}
		for _, name := range asset.Filenames {
			if _, ok := kept[name]; !ok {
				dropped = append(dropped, name)
			}
		}
		asset.Filenames = models.StringList(req.Filenames)
	}

	if req.Title != nil {
		asset.Title = *req.Title
	}
	if req.Description != nil {
		asset.Description = req.Description
	}
	if req.OwnerID != nil {
		if _, err := s.users.FindByID(ctx, *req.OwnerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "owner user not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner user")
		}
		asset.OwnerID = *req.OwnerID
	}
	if req.Category != nil {
		asset.Category = req.Category
	}
	if req.Duration != nil {
		asset.Duration = req.Duration
	}
	if req.Status != nil {
		asset.Status = *req.Status
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update audio asset")
	}

	if s.uploads != nil {
		for _, name := range dropped {
			if !s.uploads.RemoveBest(name) {
				s.logger.Warn("replaced audio file not found for removal", zap.String("filename", name))
			}
		}
	}

	return asset, nil
}

// Delete removes an audio asset record. Stored files are left in place;
// cleaning them up is a storage maintenance concern.
func (s *AudioService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "audio asset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete audio asset")
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

type mockAudioRepo struct {
	items  map[int64]*models.AudioAsset
	nextID int64
}

func (m *mockAudioRepo) List(ctx context.Context, ownerID *int64) ([]models.AudioAsset, error) {
	out := make([]models.AudioAsset, 0, len(m.items))
	for _, asset := range m.items {
		if ownerID != nil && asset.OwnerID != *ownerID {
			continue
		}
		out = append(out, *asset)
	}
	return out, nil
}

func (m *mockAudioRepo) FindByID(ctx context.Context, id int64) (*models.AudioAsset, error) {
	if asset, ok := m.items[id]; ok {
		cp := *asset
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAudioRepo) Create(ctx context.Context, asset *models.AudioAsset) error {
	if m.items == nil {
		m.items = make(map[int64]*models.AudioAsset)
	}
	m.nextID++
	asset.ID = m.nextID
	cp := *asset
	m.items[asset.ID] = &cp
	return nil
}

func (m *mockAudioRepo) Update(ctx context.Context, asset *models.AudioAsset) error {
	cp := *asset
	m.items[asset.ID] = &cp
	return nil
}

func (m *mockAudioRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestAudioServiceCreate(t *testing.T) {
	repo := &mockAudioRepo{}
	users := &mockUserFinder{known: map[int64]bool{7: true}}
	service := NewAudioService(repo, users, nil, validator.New(), zap.NewNop())

	asset, err := service.Create(context.Background(), CreateAudioRequest{
		Title:     "Listening drill 1",
		OwnerID:   7,
		Status:    models.AudioActive,
		Filenames: []string{"audio-1-aaaa.mp3", "audio-2-bbbb.mp3"},
	})
	require.NoError(t, err)
	assert.Len(t, asset.Filenames, 2)
}

func TestAudioServiceCreateUnknownOwner(t *testing.T) {
	repo := &mockAudioRepo{}
	users := &mockUserFinder{known: map[int64]bool{}}
	service := NewAudioService(repo, users, nil, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateAudioRequest{
		Title:   "Listening drill 1",
		OwnerID: 404,
		Status:  models.AudioActive,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, repo.items)
}

func TestAudioServiceUpdateReplaceFilesRemovesDropped(t *testing.T) {
	repo := &mockAudioRepo{items: map[int64]*models.AudioAsset{
		1: {ID: 1, Title: "Listening drill 1", OwnerID: 7, Status: models.AudioActive,
			Filenames: models.StringList{"audio-1-aaaa.mp3", "audio-2-bbbb.mp3"}},
	}}
	users := &mockUserFinder{known: map[int64]bool{7: true}}
	uploads := &mockFileRemover{}
	service := NewAudioService(repo, users, uploads, validator.New(), zap.NewNop())

	asset, err := service.Update(context.Background(), 1, UpdateAudioRequest{
		Filenames: []string{"audio-2-bbbb.mp3", "audio-3-cccc.mp3"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"audio-2-bbbb.mp3", "audio-3-cccc.mp3"}, asset.Filenames)
	assert.Equal(t, []string{"audio-1-aaaa.mp3"}, uploads.removed)
}

func TestAudioServiceUpdateWithoutFilesKeepsList(t *testing.T) {
	repo := &mockAudioRepo{items: map[int64]*models.AudioAsset{
		1: {ID: 1, Title: "Listening drill 1", OwnerID: 7, Status: models.AudioActive,
			Filenames: models.StringList{"audio-1-aaaa.mp3"}},
	}}
	users := &mockUserFinder{known: map[int64]bool{7: true}}
	uploads := &mockFileRemover{}
	service := NewAudioService(repo, users, uploads, validator.New(), zap.NewNop())

	title := "Listening drill 1b"
	asset, err := service.Update(context.Background(), 1, UpdateAudioRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"audio-1-aaaa.mp3"}, asset.Filenames)
	assert.Empty(t, uploads.removed)
}

func TestAudioServiceUpdateUnknownOwner(t *testing.T) {
	repo := &mockAudioRepo{items: map[int64]*models.AudioAsset{
		1: {ID: 1, Title: "Listening drill 1", OwnerID: 7, Status: models.AudioActive},
	}}
	users := &mockUserFinder{known: map[int64]bool{7: true}}
	service := NewAudioService(repo, users, nil, validator.New(), zap.NewNop())

	owner := int64(404)
	_, err := service.Update(context.Background(), 1, UpdateAudioRequest{OwnerID: &owner})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, int64(7), repo.items[1].OwnerID)
}

func TestAudioServiceDeleteKeepsFiles(t *testing.T) {
	repo := &mockAudioRepo{items: map[int64]*models.AudioAsset{
		1: {ID: 1, Title: "Listening drill 1", OwnerID: 7, Status: models.AudioActive,
			Filenames: models.StringList{"audio-1-aaaa.mp3"}},
	}}
	uploads := &mockFileRemover{}
	service := NewAudioService(repo, &mockUserFinder{}, uploads, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, repo.items)
	assert.Empty(t, uploads.removed)
}

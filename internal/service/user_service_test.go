package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

type mockUserRepo struct {
	items      map[int64]*models.User
	taken      bool
	listResult []models.User
	listErr    error
	deleteErr  error
	nextID     int64
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := m.items[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	for _, user := range m.items {
		if user.Login == identifier || user.Email == identifier {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmailOrLogin(ctx context.Context, email, login string) (bool, error) {
	return m.taken, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.items == nil {
		m.items = make(map[int64]*models.User)
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockFileRemover struct {
	removed []string
	missing bool
}

func (m *mockFileRemover) RemoveBest(filename string) bool {
	m.removed = append(m.removed, filename)
	return !m.missing
}

func TestUserServiceRegister(t *testing.T) {
	repo := &mockUserRepo{}
	service := NewUserService(repo, nil, validator.New(), zap.NewNop())

	user, err := service.Register(context.Background(), RegisterUserRequest{
		Name:     "Maria Silva",
		Email:    "Maria@Example.com",
		Login:    "maria",
		Password: "secret123",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Len(t, repo.items, 1)
}

func TestUserServiceRegisterDuplicate(t *testing.T) {
	repo := &mockUserRepo{taken: true}
	service := NewUserService(repo, nil, validator.New(), zap.NewNop())

	_, err := service.Register(context.Background(), RegisterUserRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Login:    "maria",
		Password: "secret123",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate))
	assert.Empty(t, repo.items)
}

func TestUserServiceRegisterUnknownRole(t *testing.T) {
	repo := &mockUserRepo{}
	service := NewUserService(repo, nil, validator.New(), zap.NewNop())

	_, err := service.Register(context.Background(), RegisterUserRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Login:    "maria",
		Password: "secret123",
		Role:     "PRINCIPAL",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestUserServiceUpdatePartial(t *testing.T) {
	cpf := "12345678900"
	repo := &mockUserRepo{items: map[int64]*models.User{
		7: {ID: 7, Name: "Maria Silva", Email: "maria@example.com", Login: "maria", Role: models.RoleStudent, CPF: &cpf},
	}}
	service := NewUserService(repo, nil, validator.New(), zap.NewNop())

	name := "Maria S. Costa"
	user, err := service.Update(context.Background(), 7, UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Maria S. Costa", user.Name)
	assert.Equal(t, "maria@example.com", user.Email)
	require.NotNil(t, user.CPF)
	assert.Equal(t, cpf, *user.CPF)
}

func TestUserServiceUpdateReplacesPhoto(t *testing.T) {
	old := "photo-1-aaaa.jpg"
	repo := &mockUserRepo{items: map[int64]*models.User{
		7: {ID: 7, Name: "Maria Silva", Email: "maria@example.com", Login: "maria", Role: models.RoleStudent, PhotoFilename: &old},
	}}
	uploads := &mockFileRemover{}
	service := NewUserService(repo, uploads, validator.New(), zap.NewNop())

	replacement := "photo-2-bbbb.jpg"
	user, err := service.Update(context.Background(), 7, UpdateUserRequest{PhotoFilename: &replacement})
	require.NoError(t, err)
	require.NotNil(t, user.PhotoFilename)
	assert.Equal(t, replacement, *user.PhotoFilename)
	assert.Equal(t, []string{old}, uploads.removed)
}

func TestUserServiceUpdateNotFound(t *testing.T) {
	service := NewUserService(&mockUserRepo{}, nil, validator.New(), zap.NewNop())

	name := "Nobody"
	_, err := service.Update(context.Background(), 404, UpdateUserRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestUserServiceDeleteConflict(t *testing.T) {
	repo := &mockUserRepo{deleteErr: &pq.Error{Code: "23503"}}
	service := NewUserService(repo, nil, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	// the same delete keeps failing identically
	err = service.Delete(context.Background(), 7)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestUserServiceDeleteNotFound(t *testing.T) {
	service := NewUserService(&mockUserRepo{}, nil, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

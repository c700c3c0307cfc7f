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

type mockEnrollmentRepo struct {
	items  map[int64]*models.EnrollmentDetail
	nextID int64
}

func (m *mockEnrollmentRepo) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	out := make([]models.EnrollmentDetail, 0, len(m.items))
	for _, detail := range m.items {
		out = append(out, *detail)
	}
	return out, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	if detail, ok := m.items[id]; ok {
		cp := *detail
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.items == nil {
		m.items = make(map[int64]*models.EnrollmentDetail)
	}
	m.nextID++
	enrollment.ID = m.nextID
	m.items[enrollment.ID] = &models.EnrollmentDetail{
		Enrollment: *enrollment,
		User:       &models.UserSummary{ID: enrollment.UserID, Name: "Maria Silva"},
	}
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	detail := m.items[enrollment.ID]
	detail.Enrollment = *enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockUserFinder struct {
	known map[int64]bool
}

func (m *mockUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.known[id] {
		return &models.User{ID: id, Name: "Maria Silva"}, nil
	}
	return nil, sql.ErrNoRows
}

func TestEnrollmentServiceCreate(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	users := &mockUserFinder{known: map[int64]bool{7: true}}
	service := NewEnrollmentService(repo, users, validator.New(), zap.NewNop())

	count := 12
	value := 150.0
	detail, err := service.Create(context.Background(), CreateEnrollmentRequest{
		UserID:           7,
		CoursePrice:      1800,
		BillingMode:      models.BillingInstallment,
		InstallmentCount: &count,
		InstallmentValue: &value,
		Status:           models.EnrollmentActive,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.UserID)
	require.NotNil(t, detail.User)
	assert.Equal(t, "Maria Silva", detail.User.Name)
}

func TestEnrollmentServiceCreateUnknownUser(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	users := &mockUserFinder{known: map[int64]bool{}}
	service := NewEnrollmentService(repo, users, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateEnrollmentRequest{
		UserID:      404,
		CoursePrice: 1800,
		BillingMode: models.BillingSubscription,
		Status:      models.EnrollmentActive,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	// the user check runs before the write
	assert.Empty(t, repo.items)
}

func TestEnrollmentServiceCreateBadBillingMode(t *testing.T) {
	service := NewEnrollmentService(&mockEnrollmentRepo{}, &mockUserFinder{}, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateEnrollmentRequest{
		UserID:      7,
		BillingMode: "yearly",
		Status:      models.EnrollmentActive,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEnrollmentServiceUpdateStatus(t *testing.T) {
	repo := &mockEnrollmentRepo{items: map[int64]*models.EnrollmentDetail{
		1: {Enrollment: models.Enrollment{ID: 1, UserID: 7, BillingMode: models.BillingSubscription, Status: models.EnrollmentActive}},
	}}
	users := &mockUserFinder{known: map[int64]bool{7: true}}
	service := NewEnrollmentService(repo, users, validator.New(), zap.NewNop())

	suspended := models.EnrollmentSuspended
	detail, err := service.Update(context.Background(), 1, UpdateEnrollmentRequest{Status: &suspended})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentSuspended, detail.Status)
	assert.Equal(t, models.BillingSubscription, detail.BillingMode)
}

func TestEnrollmentServiceDeleteNotFound(t *testing.T) {
	service := NewEnrollmentService(&mockEnrollmentRepo{}, &mockUserFinder{}, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

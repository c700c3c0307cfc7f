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

type mockCourseRepo struct {
	items  map[int64]*models.Course
	nextID int64
}

func (m *mockCourseRepo) List(ctx context.Context, category, search string) ([]models.Course, error) {
	out := make([]models.Course, 0, len(m.items))
	for _, course := range m.items {
		out = append(out, *course)
	}
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := m.items[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Course)
	}
	m.nextID++
	course.ID = m.nextID
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	service := NewCourseService(repo, nil, validator.New(), zap.NewNop())

	attachment := "file-1-aaaa.pdf"
	course, err := service.Create(context.Background(), CreateCourseRequest{
		Title:      "Ingles Basico",
		Price:      299.9,
		Status:     models.CourseActive,
		Attachment: &attachment,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ingles Basico", course.Title)
	require.NotNil(t, course.Attachment)
	assert.Equal(t, attachment, *course.Attachment)
}

func TestCourseServiceCreateBadStatus(t *testing.T) {
	service := NewCourseService(&mockCourseRepo{}, nil, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateCourseRequest{
		Title:  "Ingles Basico",
		Status: "archived",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCourseServiceUpdateReplacesAttachment(t *testing.T) {
	old := "file-1-aaaa.pdf"
	repo := &mockCourseRepo{items: map[int64]*models.Course{
		2: {ID: 2, Title: "Ingles Basico", Status: models.CourseActive, Attachment: &old},
	}}
	uploads := &mockFileRemover{}
	service := NewCourseService(repo, uploads, validator.New(), zap.NewNop())

	replacement := "file-2-bbbb.mp3"
	course, err := service.Update(context.Background(), 2, UpdateCourseRequest{Attachment: &replacement})
	require.NoError(t, err)
	require.NotNil(t, course.Attachment)
	assert.Equal(t, replacement, *course.Attachment)
	assert.Equal(t, []string{old}, uploads.removed)
}

func TestCourseServiceUpdateKeepsAttachment(t *testing.T) {
	old := "file-1-aaaa.pdf"
	repo := &mockCourseRepo{items: map[int64]*models.Course{
		2: {ID: 2, Title: "Ingles Basico", Status: models.CourseActive, Attachment: &old},
	}}
	uploads := &mockFileRemover{}
	service := NewCourseService(repo, uploads, validator.New(), zap.NewNop())

	title := "Ingles Intermediario"
	course, err := service.Update(context.Background(), 2, UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, course.Attachment)
	assert.Equal(t, old, *course.Attachment)
	assert.Empty(t, uploads.removed)
}

func TestCourseServiceDeleteNotFound(t *testing.T) {
	service := NewCourseService(&mockCourseRepo{}, nil, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

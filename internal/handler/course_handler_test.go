package handler

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	"github.com/escolaware/escola-api/internal/service"
	"github.com/escolaware/escola-api/pkg/storage"
)

type fakeCourseRepo struct {
	courses map[int64]*models.Course
	nextID  int64
}

func (f *fakeCourseRepo) List(ctx context.Context, category, search string) ([]models.Course, error) {
	out := make([]models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		out = append(out, *course)
	}
	return out, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := f.courses[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if f.courses == nil {
		f.courses = make(map[int64]*models.Course)
	}
	f.nextID++
	course.ID = f.nextID
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func courseForm(t *testing.T, filename, fileContentType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Ingles Basico"))
	require.NoError(t, writer.WriteField("status", "active"))
	require.NoError(t, writer.WriteField("price", "299.90"))
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", fileContentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newCourseHandlerFixture(repo *fakeCourseRepo, uploads *fakeUploadStore) *CourseHandler {
	svc := service.NewCourseService(repo, nil, nil, zap.NewNop())
	return NewCourseHandler(svc, uploads)
}

func TestCourseHandlerCreateWithPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeCourseRepo{}
	uploads := &fakeUploadStore{}
	handler := newCourseHandlerFixture(repo, uploads)

	body, contentType := courseForm(t, "handout.pdf", "application/pdf")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/cursos", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.courses, 1)
	require.Len(t, uploads.saved, 1)
	for _, bucket := range uploads.saved {
		assert.Equal(t, storage.BucketPDF, bucket)
	}
}

func TestCourseHandlerCreateRejectsImageAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeCourseRepo{}
	uploads := &fakeUploadStore{}
	handler := newCourseHandlerFixture(repo, uploads)

	body, contentType := courseForm(t, "cover.png", "image/png")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/cursos", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.courses)
	assert.Empty(t, uploads.saved)
}

func TestCourseHandlerCreateWithoutAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeCourseRepo{}
	handler := newCourseHandlerFixture(repo, &fakeUploadStore{})

	body, contentType := courseForm(t, "", "")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/cursos", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

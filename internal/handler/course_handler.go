package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/models"
	"github.com/escolaware/escola-api/internal/service"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
	"github.com/escolaware/escola-api/pkg/storage"
)

// CourseHandler handles catalog course endpoints.
type CourseHandler struct {
	service *service.CourseService
	uploads uploadStore
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc *service.CourseService, uploads uploadStore) *CourseHandler {
	return &CourseHandler{service: svc, uploads: uploads}
}

// List godoc
// @Summary List courses
// @Description List courses ordered by title, optionally filtered by category or search term
// @Tags Courses
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /cursos [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cursos/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, course)
}

// Create godoc
// @Summary Create course
// @Description Multipart creation with an optional audio or PDF attachment
// @Tags Courses
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param price formData number false "Price"
// @Param status formData string true "Status"
// @Param file formData file false "Audio or PDF attachment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cursos [post]
func (h *CourseHandler) Create(c *gin.Context) {
	price, err := formDecimal(c, "price")
	if err != nil {
		response.Error(c, err)
		return
	}
	instructorID, err := formID(c, "instructor_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	req := service.CreateCourseRequest{
		Title:        c.PostForm("title"),
		Description:  formString(c, "description"),
		Category:     formString(c, "category"),
		Level:        formString(c, "level"),
		Duration:     formString(c, "duration"),
		Status:       models.CourseStatus(c.PostForm("status")),
		Tags:         formString(c, "tags"),
		InstructorID: instructorID,
	}
	if price != nil {
		req.Price = *price
	}

	attachment, err := h.saveAttachment(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Attachment = attachment

	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Description Multipart partial update; replacing the attachment removes the previous file
// @Tags Courses
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Course ID"
// @Param file formData file false "Audio or PDF attachment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cursos/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	price, err := formDecimal(c, "price")
	if err != nil {
		response.Error(c, err)
		return
	}
	instructorID, err := formID(c, "instructor_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	req := service.UpdateCourseRequest{
		Title:        formString(c, "title"),
		Description:  formString(c, "description"),
		Category:     formString(c, "category"),
		Level:        formString(c, "level"),
		Duration:     formString(c, "duration"),
		Price:        price,
		Tags:         formString(c, "tags"),
		InstructorID: instructorID,
	}
	if raw := formString(c, "status"); raw != nil {
		status := models.CourseStatus(*raw)
		req.Status = &status
	}

	attachment, err := h.saveAttachment(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Attachment = attachment

	course, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cursos/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// saveAttachment stores the uploaded course material, if any. Only audio
// files and PDFs are accepted.
func (h *CourseHandler) saveAttachment(c *gin.Context) (*string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid file upload")
	}

	mimeType := header.Header.Get("Content-Type")
	if !storage.AllowedCourseFile(mimeType, header.Filename) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "course material must be an audio file or a PDF")
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file upload")
	}
	defer file.Close() //nolint:errcheck

	bucket := storage.Classify(mimeType, header.Filename)
	name := storage.GenerateName("file", header.Filename)
	stored, err := h.uploads.Save(bucket, name, file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file upload")
	}
	return &stored, nil
}

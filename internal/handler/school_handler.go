package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/service"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
)

// SchoolHandler handles school CRUD endpoints.
type SchoolHandler struct {
	service *service.SchoolService
}

// NewSchoolHandler creates a new school handler.
func NewSchoolHandler(svc *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// List godoc
// @Summary List schools
// @Description List schools ordered by name
// @Tags Schools
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /escolas [get]
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schools)
}

// Get godoc
// @Summary Get school
// @Tags Schools
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /escolas/{id} [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	school, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, school)
}

// Create godoc
// @Summary Create school
// @Description Create a school. A taken name reports exists instead of an error status.
// @Tags Schools
// @Accept json
// @Produce json
// @Param payload body service.CreateSchoolRequest true "Create school payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /escolas [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	var req service.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	school, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrDuplicate) {
			response.Exists(c)
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, school)
}

// Update godoc
// @Summary Update school
// @Description Partial update; absent fields keep their prior value
// @Tags Schools
// @Accept json
// @Produce json
// @Param id path int true "School ID"
// @Param payload body service.UpdateSchoolRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /escolas/{id} [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	school, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, school)
}

// Delete godoc
// @Summary Delete school
// @Tags Schools
// @Produce json
// @Param id path int true "School ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /escolas/{id} [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
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

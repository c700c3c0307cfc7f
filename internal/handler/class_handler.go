package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/service"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
)

// ClassHandler handles scheduled group (turma) endpoints.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler creates a new class handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes
// @Description List classes ordered by name, optionally scoped to a school
// @Tags Classes
// @Produce json
// @Param school_id query int false "School filter"
// @Success 200 {object} response.Envelope
// @Router /turmas [get]
func (h *ClassHandler) List(c *gin.Context) {
	var schoolID *int64
	if raw := c.Query("school_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school_id must be a number"))
			return
		}
		schoolID = &id
	}

	classes, err := h.service.List(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, classes)
}

// Get godoc
// @Summary Get class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /turmas/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, class)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Create class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /turmas [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, class)
}

// Update godoc
// @Summary Update class
// @Description Partial update; absent fields keep their prior value
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.UpdateClassRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /turmas/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	class, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, class)
}

// Delete godoc
// @Summary Delete class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /turmas/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
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

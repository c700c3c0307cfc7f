package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/service"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
)

// DashboardHandler handles aggregate statistics endpoints. Every request
// recomputes its numbers from the database.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// GlobalStats godoc
// @Summary Global dashboard statistics
// @Description Entity totals, per-role user counts, recent enrollments and top schools by user count
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GlobalStats(c *gin.Context) {
	stats, err := h.service.GlobalStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}

// SchoolStats godoc
// @Summary Per-school dashboard statistics
// @Description User, enrollment and class counts plus the enrollment roster for one school
// @Tags Dashboard
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/escola/{id}/stats [get]
func (h *DashboardHandler) SchoolStats(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.service.SchoolStats(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}

// RecentErrors godoc
// @Summary Recent request failures
// @Description Latest diagnostic records from the error log, newest first
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Maximum rows (default 20, capped at 100)"
// @Success 200 {object} response.Envelope
// @Router /dashboard/errors [get]
func (h *DashboardHandler) RecentErrors(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a number"))
			return
		}
		limit = parsed
	}

	logs, err := h.service.RecentErrors(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, logs)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/models"
	"github.com/escolaware/escola-api/internal/service"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
	"github.com/escolaware/escola-api/pkg/storage"
)

// AudioHandler handles audio asset endpoints.
type AudioHandler struct {
	service *service.AudioService
	uploads uploadStore
}

// NewAudioHandler creates a new audio handler.
func NewAudioHandler(svc *service.AudioService, uploads uploadStore) *AudioHandler {
	return &AudioHandler{service: svc, uploads: uploads}
}

// List godoc
// @Summary List audio assets
// @Description List audio assets newest first, optionally scoped to an owner
// @Tags Audios
// @Produce json
// @Param owner_id query int false "Owner filter"
// @Success 200 {object} response.Envelope
// @Router /audios [get]
func (h *AudioHandler) List(c *gin.Context) {
	var ownerID *int64
	if raw := c.Query("owner_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "owner_id must be a number"))
			return
		}
		ownerID = &id
	}

	audios, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, audios)
}

// Get godoc
// @Summary Get audio asset
// @Tags Audios
// @Produce json
// @Param id path int true "Audio ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /audios/{id} [get]
func (h *AudioHandler) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	audio, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, audio)
}

// Create godoc
// @Summary Create audio asset
// @Description Multipart creation carrying one or more attached files
// @Tags Audios
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param owner_id formData int true "Owner user ID"
// @Param status formData string true "Status"
// @Param files formData file false "Attached files"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /audios [post]
func (h *AudioHandler) Create(c *gin.Context) {
	ownerID, err := formID(c, "owner_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	req := service.CreateAudioRequest{
		Title:       c.PostForm("title"),
		Description: formString(c, "description"),
		Category:    formString(c, "category"),
		Duration:    formString(c, "duration"),
		Status:      models.AudioStatus(c.PostForm("status")),
	}
	if ownerID != nil {
		req.OwnerID = *ownerID
	}

	filenames, err := h.saveAudioFiles(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Filenames = filenames

	audio, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, audio)
}

// Update godoc
// @Summary Update audio asset
// @Description Multipart partial update. Sending files replaces the stored list; dropped files are removed from disk.
// @Tags Audios
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Audio ID"
// @Param files formData file false "Attached files"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /audios/{id} [put]
func (h *AudioHandler) Update(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ownerID, err := formID(c, "owner_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	req := service.UpdateAudioRequest{
		Title:       formString(c, "title"),
		Description: formString(c, "description"),
		OwnerID:     ownerID,
		Category:    formString(c, "category"),
		Duration:    formString(c, "duration"),
	}
	if raw := formString(c, "status"); raw != nil {
		status := models.AudioStatus(*raw)
		req.Status = &status
	}

	filenames, err := h.saveAudioFiles(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.Filenames = filenames

	audio, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, audio)
}

// Delete godoc
// @Summary Delete audio asset
// @Description Remove the record; stored files stay on disk
// @Tags Audios
// @Produce json
// @Param id path int true "Audio ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /audios/{id} [delete]
func (h *AudioHandler) Delete(c *gin.Context) {
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

// saveAudioFiles stores every uploaded file from the "files" field in its
// classified bucket; any file type is accepted. A nil return with no error
// means the field was absent, which update semantics treat as "keep the
// current list".
func (h *AudioHandler) saveAudioFiles(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid multipart payload")
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return nil, nil
	}

	stored := make([]string, 0, len(headers))
	for _, header := range headers {
		bucket := storage.Classify(header.Header.Get("Content-Type"), header.Filename)

		file, err := header.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read audio upload")
		}

		name := storage.GenerateName("audio", header.Filename)
		savedName, err := h.uploads.Save(bucket, name, file)
		file.Close() //nolint:errcheck
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store audio upload")
		}
		stored = append(stored, savedName)
	}

	return stored, nil
}

package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/models"
	"github.com/escolaware/escola-api/internal/service"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/response"
	"github.com/escolaware/escola-api/pkg/storage"
)

// uploadStore is the slice of the upload store handlers need to persist
// incoming files.
type uploadStore interface {
	Save(bucket storage.Bucket, filename string, r io.Reader) (string, error)
}

// UserHandler handles user CRUD, registration and profile-edit endpoints.
type UserHandler struct {
	service *service.UserService
	uploads uploadStore
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, uploads uploadStore) *UserHandler {
	return &UserHandler{service: svc, uploads: uploads}
}

// List godoc
// @Summary List users
// @Description List users ordered by name, with role/school/search filters
// @Tags Users
// @Produce json
// @Param role query string false "Role filter"
// @Param school_id query int false "School filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter

	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		if !models.ValidRole(r) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown role"))
			return
		}
		filter.Role = &r
	}
	if raw := c.Query("school_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school_id must be a number"))
			return
		}
		filter.SchoolID = &id
	}
	filter.Search = c.Query("search")

	users, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, users)
}

// Get godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user)
}

// Create godoc
// @Summary Create user
// @Description Create a user from a JSON payload. A taken email or login reports exists instead of an error status.
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.RegisterUserRequest true "Create user payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrDuplicate) {
			response.Exists(c)
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Register godoc
// @Summary Register user
// @Description Multipart registration with an optional profile photo. A taken email or login reports exists instead of an error status.
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param login formData string true "Login"
// @Param password formData string true "Password"
// @Param role formData string true "Role"
// @Param photo formData file false "Profile photo"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	req, err := h.registerRequestFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), *req)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrDuplicate) {
			response.Exists(c)
			return
		}
		response.Error(c, err)
		return
	}

	response.CreatedWithMessage(c, user, "user registered")
}

// Update godoc
// @Summary Update user
// @Description Partial JSON update; absent fields keep their prior value
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param payload body service.UpdateUserRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user)
}

// EditUser godoc
// @Summary Edit user profile
// @Description Multipart partial update with an optional replacement photo. Replacing the photo removes the previous file.
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "User ID"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /edit-user/{id} [put]
func (h *UserHandler) EditUser(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	req, err := h.updateRequestFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
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

func (h *UserHandler) registerRequestFromForm(c *gin.Context) (*service.RegisterUserRequest, error) {
	schoolID, err := formID(c, "school_id")
	if err != nil {
		return nil, err
	}
	birthDate, err := formDate(c, "birth_date")
	if err != nil {
		return nil, err
	}

	req := service.RegisterUserRequest{
		Name:          c.PostForm("name"),
		Email:         c.PostForm("email"),
		Login:         c.PostForm("login"),
		Password:      c.PostForm("password"),
		Role:          models.UserRole(c.PostForm("role")),
		CPF:           formString(c, "cpf"),
		RG:            formString(c, "rg"),
		BirthDate:     birthDate,
		MaritalStatus: formString(c, "marital_status"),
		Phone:         formString(c, "phone"),
		Mobile:        formString(c, "mobile"),
		City:          formString(c, "city"),
		Neighborhood:  formString(c, "neighborhood"),
		State:         formString(c, "state"),
		Street:        formString(c, "street"),
		Number:        formString(c, "number"),
		Bio:           formString(c, "bio"),
		SchoolID:      schoolID,
	}

	photo, err := h.savePhoto(c)
	if err != nil {
		return nil, err
	}
	req.PhotoFilename = photo

	return &req, nil
}

func (h *UserHandler) updateRequestFromForm(c *gin.Context) (*service.UpdateUserRequest, error) {
	schoolID, err := formID(c, "school_id")
	if err != nil {
		return nil, err
	}
	birthDate, err := formDate(c, "birth_date")
	if err != nil {
		return nil, err
	}

	req := service.UpdateUserRequest{
		Name:          formString(c, "name"),
		Email:         formString(c, "email"),
		Login:         formString(c, "login"),
		CPF:           formString(c, "cpf"),
		RG:            formString(c, "rg"),
		BirthDate:     birthDate,
		MaritalStatus: formString(c, "marital_status"),
		Phone:         formString(c, "phone"),
		Mobile:        formString(c, "mobile"),
		City:          formString(c, "city"),
		Neighborhood:  formString(c, "neighborhood"),
		State:         formString(c, "state"),
		Street:        formString(c, "street"),
		Number:        formString(c, "number"),
		Bio:           formString(c, "bio"),
		SchoolID:      schoolID,
	}
	if raw := formString(c, "role"); raw != nil {
		role := models.UserRole(*raw)
		req.Role = &role
	}

	photo, err := h.savePhoto(c)
	if err != nil {
		return nil, err
	}
	req.PhotoFilename = photo

	return &req, nil
}

// savePhoto stores the uploaded profile photo, if any, and returns the
// generated filename. User photos are not type-restricted.
func (h *UserHandler) savePhoto(c *gin.Context) (*string, error) {
	header, err := c.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid photo upload")
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo upload")
	}
	defer file.Close() //nolint:errcheck

	bucket := storage.Classify(header.Header.Get("Content-Type"), header.Filename)
	name := storage.GenerateName("photo", header.Filename)
	stored, err := h.uploads.Save(bucket, name, file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo upload")
	}
	return &stored, nil
}

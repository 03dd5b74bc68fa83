package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devstack-id/fullstack-api/internal/application"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/internal/interface/middleware"
	"github.com/devstack-id/fullstack-api/pkg/response"
	"github.com/devstack-id/fullstack-api/pkg/validation"
)

// UserHandler covers the caller's own profile and superuser administration.
type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// UserPublic is the response shape for users; the hashed credential never
// leaves the server.
type UserPublic struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	AvatarURL   string    `json:"avatar_url"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserPublic(u *entity.User) UserPublic {
	return UserPublic{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	caller := middleware.Caller(c)
	u, err := h.Svc.GetProfile(c.Request.Context(), caller.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserPublic(u))
}

type updateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

// UpdateMe PATCH /api/users/me. Partial update; only supplied fields change.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller := middleware.Caller(c)
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.Detail(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), caller.ID, application.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserPublic(u))
}

// UploadAvatar POST /api/users/me/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	caller := middleware.Caller(c)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Err(c, http.StatusBadRequest, "missing file field")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Err(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	u, err := h.Svc.UploadAvatar(c.Request.Context(), caller.ID, f, fh.Filename, contentType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserPublic(u))
}

// List GET /api/users (superuser)
func (h *UserHandler) List(c *gin.Context) {
	offset, limit := pageParams(c)
	users, total, err := h.Svc.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	data := make([]UserPublic, 0, len(users))
	for _, u := range users {
		data = append(data, toUserPublic(u))
	}
	c.JSON(http.StatusOK, response.List[UserPublic]{Data: data, Count: total})
}

type adminCreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	FullName    string `json:"full_name" binding:"max=255"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Create POST /api/users (superuser)
func (h *UserHandler) Create(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.Detail(err))
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	u, err := h.Svc.AdminCreate(c.Request.Context(), application.AdminCreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    active,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserPublic(u))
}

// Get GET /api/users/:id (superuser)
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserPublic(u))
}

type adminUpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	FullName    *string `json:"full_name" binding:"omitempty,max=255"`
	Password    *string `json:"password" binding:"omitempty,pwd"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// Update PATCH /api/users/:id (superuser)
func (h *UserHandler) Update(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.Detail(err))
		return
	}
	u, err := h.Svc.AdminUpdate(c.Request.Context(), c.Param("id"), application.AdminUpdateUserInput{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserPublic(u))
}

// Delete DELETE /api/users/:id (superuser)
func (h *UserHandler) Delete(c *gin.Context) {
	caller := middleware.Caller(c)
	u, err := h.Svc.DeleteUser(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserPublic(u))
}

// Search GET /api/users/search?q= (superuser, Elasticsearch)
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Err(c, http.StatusBadRequest, "missing query parameter q")
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List[map[string]any]{Data: hits, Count: int64(len(hits))})
}

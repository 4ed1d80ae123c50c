package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/accounts-api/internal/application"
	"github.com/oksasatya/accounts-api/pkg/response"
	"github.com/oksasatya/accounts-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitnil,min=1"`
	Email *string `json:"email" binding:"omitnil,email"`
}

type updatePasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err, "failed to create user")
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"message": "user created", "user": u})
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := validation.Pagination(c.Query("page"), c.Query("limit"))
	users, err := h.Svc.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, h.Logger, err, "failed to list users")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err, "failed to search users")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users})
}

// Get answers with name and email only.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	p, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err, "failed to get user")
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), id, userapp.UpdateProfileInput{Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(c, h.Logger, err, "failed to update user")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "user updated", "user": u})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdatePassword(c.Request.Context(), id, req.Password)
	if err != nil {
		writeError(c, h.Logger, err, "failed to update password")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "password updated", "user": u})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err, "failed to delete user")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "user deleted", "user": u})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/accounts-api/internal/application"
	"github.com/oksasatya/accounts-api/pkg/response"
)

const HeaderTokenExpiresAt = "X-Token-Expires-At"

type AuthHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err, "failed to login")
		return
	}
	c.Header(HeaderTokenExpiresAt, res.ExpiresAt.UTC().Format(time.RFC3339))
	response.JSON(c, http.StatusOK, gin.H{"token": res.Token})
}

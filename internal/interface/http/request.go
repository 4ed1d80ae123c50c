package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/accounts-api/internal/application"
	"github.com/oksasatya/accounts-api/pkg/helpers"
	"github.com/oksasatya/accounts-api/pkg/response"
	"github.com/oksasatya/accounts-api/pkg/validation"
)

type idURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// bindJSON decodes and validates the body into obj. An empty body is
// validated as an empty object so required fields report by name.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		response.Error(c, http.StatusBadRequest, validation.FromBinding(err).Error())
		return false
	}
	return true
}

func bindID(c *gin.Context) (string, bool) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, validation.FromBinding(err).Error())
		return "", false
	}
	return uri.ID, true
}

// writeError maps service failures to status codes. Unknown errors are
// logged and answered with fallback.
func writeError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, userapp.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "email already registered")
	case errors.Is(err, userapp.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials")
	default:
		helpers.LogError(logger, fallback, err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}

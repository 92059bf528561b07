package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/repository"
	"github.com/nischalsh/todo-service/internal/service"
	"github.com/nischalsh/todo-service/internal/utils"
)

// respond renders the uniform success envelope.
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.NewResponse(status, message, data))
}

// respondError maps a service error onto an HTTP status and renders the
// failure envelope. Only the message string is exposed.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, dto.NewResponse(status, err.Error(), nil))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrTokenReused),
		errors.Is(err, utils.ErrTokenExpired),
		errors.Is(err, utils.ErrTokenMalformed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDependencyFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

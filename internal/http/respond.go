package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend-template/internal/domain"
	"backend-template/internal/service"
	"backend-template/internal/storage"
)

// Envelope is the response wrapper shared by every endpoint.
type Envelope struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
}

const unexpectedMessage = "An unexpected error occurred"

func success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
		Path:       c.Request.URL.Path,
	})
}

func fail(c *gin.Context, status int, message string) {
	failWithData(c, status, message, nil)
}

func failWithData(c *gin.Context, status int, message string, data any) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:    false,
		Message:    message,
		Data:       data,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
		Path:       c.Request.URL.Path,
	})
}

// writeError translates a service error into a status code and envelope.
// Unexpected errors are logged and never echoed to the caller.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		failWithData(c, http.StatusBadRequest, "Validation failed", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrEmailTaken):
		fail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrPhoneTaken):
		fail(c, http.StatusBadRequest, "Phone number already registered")
	case errors.Is(err, service.ErrSKUTaken):
		fail(c, http.StatusBadRequest, "SKU already exists")
	case errors.Is(err, domain.ErrDuplicateEntity):
		fail(c, http.StatusBadRequest, "Resource already exists")
	case errors.Is(err, domain.ErrAuthenticationFailed):
		fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrTokenInvalid):
		fail(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, domain.ErrForbidden):
		fail(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, storage.ErrNotConfigured):
		h.logger.WithField("path", c.Request.URL.Path).Error("object storage is not configured")
		fail(c, http.StatusInternalServerError, unexpectedMessage)
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("unexpected error")
		fail(c, http.StatusInternalServerError, unexpectedMessage)
	}
}

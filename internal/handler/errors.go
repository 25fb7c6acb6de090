package handler

import (
	"errors"
	"net/http"
	"strings"

	"geoloc193/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/useinsider/go-pkg/inslogger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondError maps service errors onto HTTP statuses. Unknown errors are logged and
// reported without detail.
func respondError(c *gin.Context, logger inslogger.Interface, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Request not found"})
	case errors.Is(err, service.ErrLinkExpired):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "link_expired", Message: "This link has expired"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid_transition", Message: "Request is not in a state that allows this operation"})
	default:
		logger.Errorf("Unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Internal server error"})
	}
}

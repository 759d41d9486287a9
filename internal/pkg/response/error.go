package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	logger := zerolog.Ctx(c.Request.Context())

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error().Err(err).Int("status", appErr.Code).Msg("request failed")
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	logger.Error().Err(err).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 with the given message and, when present, the binding details.
func BadRequest(c *gin.Context, message string, err error) {
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

package common

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "gweb2api-go/internal/errors"
)

// AbortWithAPIError serializes the error as an OpenAI envelope and
// aborts the request.
func AbortWithAPIError(c *gin.Context, err *apperrors.APIError) {
	if err == nil {
		err = apperrors.New(http.StatusInternalServerError, "server_error", "server_error", "unknown error")
	}
	c.JSON(safeStatus(err.HTTPStatus), err.Envelope())
	c.Abort()
}

// AbortWithError builds an APIError from the fields and aborts.
func AbortWithError(c *gin.Context, status int, typ, message string) {
	typ = normalizeType(typ)
	if strings.TrimSpace(message) == "" {
		message = "internal error"
	}
	AbortWithAPIError(c, apperrors.New(safeStatus(status), typ, typ, message))
}

func normalizeType(typ string) string {
	if strings.TrimSpace(typ) == "" {
		return "server_error"
	}
	return typ
}

func safeStatus(status int) int {
	if status >= 400 && status <= 599 {
		return status
	}
	return http.StatusInternalServerError
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// clientErrorCodes are the AppError codes a caller can fix.
var clientErrorCodes = map[string]int{
	apperrors.CodeInvalidInput:        http.StatusBadRequest,
	apperrors.CodeUnsupportedProvider: http.StatusBadRequest,
	apperrors.CodeUnsupportedModel:    http.StatusBadRequest,
	apperrors.CodeNotConfigured:       http.StatusBadRequest,
	apperrors.CodeInvalidCredentials:  http.StatusUnauthorized,
	apperrors.CodeInvalidToken:        http.StatusForbidden,
}

// fromAppError keeps the AppError code for client errors and reports
// everything else as a 500 with fallbackCode.
func fromAppError(err error, fallbackCode string) *HTTPError {
	code := apperrors.CodeOf(err)
	if status, ok := clientErrorCodes[code]; ok {
		return NewHTTPError(status, code, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

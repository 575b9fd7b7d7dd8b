package response

import (
	"errors"
	"net/http"

	"expoflow/pkg/apperror"
)

// Response represents a standard API response format
type Response struct {
	Status     string            `json:"status"`      // "success" or "error"
	StatusCode int               `json:"status_code"` // HTTP status code
	Data       interface{}       `json:"data,omitempty"`
	Meta       interface{}       `json:"meta,omitempty"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"` // apperror kind
	Details    map[string]string `json:"details,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paged is Success with pagination metadata attached.
func Paged(data interface{}, meta interface{}) Response {
	r := Success(http.StatusOK, data)
	r.Meta = meta
	return r
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// FromError maps err to its HTTP status and response body. Errors that are
// not *apperror.Error become an opaque 500.
func FromError(err error) (int, Response) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, Error(http.StatusInternalServerError, "internal server error")
	}
	status := apperror.HTTPStatus(err)
	r := Error(status, appErr.Message)
	r.Code = string(appErr.Kind)
	r.Details = appErr.Details
	return status, r
}

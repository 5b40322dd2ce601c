package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field of every error body.
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodePartialFailure     = "PARTIAL_FAILURE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

type codeInfo struct {
	status  int
	message string
}

var codes = map[string]codeInfo{
	ErrCodeUnauthorized:       {http.StatusUnauthorized, "Authentication required"},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, "Invalid email or password"},
	ErrCodeForbidden:          {http.StatusForbidden, "Access denied"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "Invalid request"},
	ErrCodeValidationFailed:   {http.StatusUnprocessableEntity, "Validation failed"},
	ErrCodeNotFound:           {http.StatusNotFound, "Resource not found"},
	ErrCodeConflict:           {http.StatusConflict, "Resource conflict"},
	ErrCodePartialFailure:     {http.StatusInternalServerError, "Request was only partially applied"},
	ErrCodeInternalError:      {http.StatusInternalServerError, "Internal server error"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// StatusFor reports the HTTP status a code is sent with.
func StatusFor(code string) int {
	if info, ok := codes[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Respond aborts the handler chain with the error body for code. An empty
// message is replaced by the code's default.
func Respond(c *gin.Context, code, message string, details any) {
	if message == "" {
		message = codes[code].message
	}
	c.AbortWithStatusJSON(StatusFor(code), &APIError{Code: code, Message: message, Details: details})
}

func Unauthorized(c *gin.Context, message string) {
	Respond(c, ErrCodeUnauthorized, message, nil)
}

func InvalidCredentials(c *gin.Context) {
	Respond(c, ErrCodeInvalidCredentials, "", nil)
}

func Forbidden(c *gin.Context, message string) {
	Respond(c, ErrCodeForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	Respond(c, ErrCodeNotFound, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	Respond(c, ErrCodeInvalidInput, message, nil)
}

func BadRequestWithDetails(c *gin.Context, message string, details any) {
	Respond(c, ErrCodeInvalidInput, message, details)
}

// ValidationFailed sends 422 with a field -> message map.
func ValidationFailed(c *gin.Context, fields map[string]string) {
	Respond(c, ErrCodeValidationFailed, "", fields)
}

func Conflict(c *gin.Context, message string) {
	Respond(c, ErrCodeConflict, message, nil)
}

// PartialFailure sends 500 with details describing which writes landed.
func PartialFailure(c *gin.Context, message string, details any) {
	Respond(c, ErrCodePartialFailure, message, details)
}

func InternalError(c *gin.Context, message string) {
	Respond(c, ErrCodeInternalError, message, nil)
}

func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, ErrCodeServiceUnavailable, message, nil)
}

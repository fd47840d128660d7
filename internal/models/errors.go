// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Stable machine-readable error codes returned in the response envelope.
const (
	CodeMissingData           = "MISSING_DATA"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeInvalidAspects        = "INVALID_ASPECTS"
	CodeWeakPassword          = "WEAK_PASSWORD"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyUser           = "ALREADY_USER"
	CodeAlreadyFollowing      = "ALREADY_FOLLOWING"
	CodeAlreadyRated          = "ALREADY_RATED"
	CodeNotFollowing          = "NOT_FOLLOWING"
	CodeNoSelfFollow          = "NO_SELF_FOLLOW"
	CodeNoSelfUnfollow        = "NO_SELF_UNFOLLOW"
	CodeSelfRating            = "SELF_RATING_NOT_ALLOWED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInvalidCurrentPass    = "INVALID_CURRENT_PASSWORD"
	CodeTokenMissing          = "TOKEN_MISSING"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeRateLimited           = "RATE_LIMITED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// AppError is the error type returned by services. It carries the HTTP status
// the boundary layer should respond with and a stable machine-readable code,
// so callers never discriminate errors by message text.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError creates an AppError with an explicit status and code.
func NewError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func NewMissingDataError() *AppError {
	return &AppError{
		Status:  fiber.StatusUnprocessableEntity,
		Code:    CodeMissingData,
		Message: "Required fields are missing",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusUnprocessableEntity,
		Code:    CodeValidationError,
		Message: message,
	}
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Status:  fiber.StatusNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewConflictError reports a uniqueness violation (409).
func NewConflictError(code, message string) *AppError {
	return &AppError{Status: fiber.StatusConflict, Code: code, Message: message}
}

// NewInvalidActionError reports a domain rule violation answered with 400,
// such as self-follows or unfollowing someone never followed.
func NewInvalidActionError(code, message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: code, Message: message}
}

func NewUnauthorizedError(code, message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Code: code, Message: message}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Code: code, Message: message}
}

// NewRateLimitedError reports a cooldown violation. retryAfter tells the
// client how long until the action is allowed again.
func NewRateLimitedError(retryAfter time.Duration, message string) *AppError {
	return &AppError{
		Status:  fiber.StatusTooManyRequests,
		Code:    CodeRateLimited,
		Message: message,
		Details: fiber.Map{"retryAfterSeconds": int64(retryAfter.Seconds())},
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
		Err:     err,
	}
}

// envelope is the standard response body shape for every endpoint.
type envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// RespondWithError writes the standard failure envelope. Unknown error types
// are masked as internal errors so storage details never leak to clients.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewInternalError(err)
	}

	body := envelope{
		Success: false,
		Message: appErr.Message,
		Error:   &errorBody{Code: appErr.Code, Details: appErr.Details},
	}
	if body.Error.Details == nil && appErr.Err != nil && appErr.Status < fiber.StatusInternalServerError {
		body.Error.Details = appErr.Err.Error()
	}

	return c.Status(appErr.Status).JSON(body)
}

// Respond writes the standard success envelope.
func Respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

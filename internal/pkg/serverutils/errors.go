package serverutils

import "github.com/gofiber/fiber/v2"

// AppError is the service-layer error type. Controllers never choose status
// codes themselves; the error handler middleware maps Code to HTTP.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError marks malformed or unprocessable input (400).
func NewValidationError(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

// NewNotFoundError marks a missing or not-owned resource (404). Ownership
// failures use this too so existence is not leaked across users.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

// NewUnauthorizedError marks a failed authentication attempt (401).
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}

// NewConflictError marks a state transition the resource cannot take (409).
func NewConflictError(message string) *AppError {
	return &AppError{Code: fiber.StatusConflict, Message: message}
}

// NewCollaboratorError marks a failure in a downstream collaborator such as
// the LLM provider or the account gateway (502).
func NewCollaboratorError(message string, err error) *AppError {
	return &AppError{Code: fiber.StatusBadGateway, Message: message, Err: err}
}

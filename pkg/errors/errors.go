// Package errors provides structured error handling for the application.
// Every error that crosses the HTTP boundary is an AppError carrying a
// stable code, which maps onto a status code.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"
	CodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA_TYPE"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeStorageError       ErrorCode = "STORAGE_ERROR"

	// Planner errors
	CodeIngredientNotFound  ErrorCode = "INGREDIENT_NOT_FOUND"
	CodeInvalidQuantity     ErrorCode = "INVALID_QUANTITY"
	CodeUnsupportedUnit     ErrorCode = "UNSUPPORTED_UNIT"
	CodeEmptySelection      ErrorCode = "EMPTY_SELECTION"
	CodeSelectionIndex      ErrorCode = "SELECTION_INDEX_OUT_OF_RANGE"
	CodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	CodeSavedRecipeNotFound ErrorCode = "SAVED_RECIPE_NOT_FOUND"
	CodePhotoRequired       ErrorCode = "PHOTO_REQUIRED"
	CodeNothingRecognized   ErrorCode = "NOTHING_RECOGNIZED"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidQuantity, CodeUnsupportedUnit,
		CodeEmptySelection, CodePhotoRequired:
		return http.StatusBadRequest
	case CodeNotFound, CodeIngredientNotFound, CodeSessionNotFound, CodeSavedRecipeNotFound,
		CodeSelectionIndex:
		return http.StatusNotFound
	case CodeNothingRecognized:
		return http.StatusUnprocessableEntity
	case CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewStorageError creates a storage error
func NewStorageError(operation string, cause error) *AppError {
	return NewAppError(
		CodeStorageError,
		"Storage operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError() *AppError {
	return NewAppError(CodeTooManyRequests, "Too many requests", "Rate limit exceeded, retry later")
}

// Planner specific errors

// NewIngredientNotFoundError creates an unknown ingredient error
func NewIngredientNotFoundError(name string) *AppError {
	return NewAppError(
		CodeIngredientNotFound,
		"Ingredient not found",
		fmt.Sprintf("%q is not in the ingredient catalog", name),
	).WithMetadata("ingredient", name)
}

// NewInvalidQuantityError creates an invalid quantity error
func NewInvalidQuantityError(quantity float64) *AppError {
	return NewAppError(
		CodeInvalidQuantity,
		"Invalid quantity",
		"Quantity must be a positive number",
	).WithMetadata("quantity", fmt.Sprintf("%v", quantity))
}

// NewUnsupportedUnitError creates an unsupported unit error
func NewUnsupportedUnitError(name, unit string) *AppError {
	return NewAppError(
		CodeUnsupportedUnit,
		"Unsupported unit",
		fmt.Sprintf("Unit %q is not available for %q", unit, name),
	).WithMetadata("ingredient", name).WithMetadata("unit", unit)
}

// NewEmptySelectionError creates an empty selection error
func NewEmptySelectionError() *AppError {
	return NewAppError(CodeEmptySelection, "Empty selection", "Add at least one ingredient")
}

// NewSelectionIndexError creates an out of range error for selection edits
func NewSelectionIndexError(index int) *AppError {
	return NewAppError(
		CodeSelectionIndex,
		"Selection item not found",
		fmt.Sprintf("No ingredient at position %d", index),
	).WithMetadata("index", index)
}

// NewSessionNotFoundError creates a session not found error
func NewSessionNotFoundError(sessionID string) *AppError {
	return NewAppError(
		CodeSessionNotFound,
		"Session not found",
		fmt.Sprintf("Session %s does not exist or has expired", sessionID),
	).WithMetadata("session_id", sessionID)
}

// NewSavedRecipeNotFoundError creates a saved recipe not found error
func NewSavedRecipeNotFoundError(id int64) *AppError {
	return NewAppError(
		CodeSavedRecipeNotFound,
		"Saved recipe not found",
		fmt.Sprintf("Saved recipe with ID %d does not exist", id),
	).WithMetadata("saved_id", id)
}

// NewPhotoRequiredError creates a missing photo error
func NewPhotoRequiredError() *AppError {
	return NewAppError(CodePhotoRequired, "Photo required", "Upload a photo of the fridge first")
}

// NewNothingRecognizedError creates an empty recognition error
func NewNothingRecognizedError() *AppError {
	return NewAppError(
		CodeNothingRecognized,
		"Nothing recognized",
		"No known ingredient was recognized in the photo",
	)
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// NewValidationErrors creates validation errors from validator errors
func NewValidationErrors(errs []ValidationError) *AppError {
	validationErrs := ValidationErrors(errs)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}

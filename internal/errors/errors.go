package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	UserNotFound       ErrorCode = "user_not_found"
	AccountNotFound    ErrorCode = "account_not_found"
	ParentNotFound     ErrorCode = "parent_not_found"
	UsernameTaken      ErrorCode = "username_taken"
	EmailTaken         ErrorCode = "email_taken"
	ValidationFailed   ErrorCode = "validation_failed"
	InvalidCredentials ErrorCode = "invalid_credentials"
	Unauthorized       ErrorCode = "unauthorized"
	InvalidInput       ErrorCode = "invalid_input"
	InvalidAmount      ErrorCode = "invalid_amount"
	InternalError      ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps the error code to the response status sent by the
// handler layer.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case UserNotFound, AccountNotFound, ParentNotFound:
		return http.StatusNotFound
	case UsernameTaken, EmailTaken:
		return http.StatusConflict
	case ValidationFailed, InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrUserNotFound           = NewAppError(UserNotFound, "user not found")
	ErrAccountNotFound        = NewAppError(AccountNotFound, "account not found")
	ErrParentNotFound         = NewAppError(ParentNotFound, "parent user not found")
	ErrUsernameTaken          = NewAppError(UsernameTaken, "username is already taken")
	ErrEmailTaken             = NewAppError(EmailTaken, "email is already in use")
	ErrInvalidCredentials     = NewAppError(InvalidCredentials, "invalid username or password")
	ErrUnauthorized           = NewAppError(Unauthorized, "missing or invalid session token")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction")
)

// utils/apperror.go
package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorKind classifies failures so handlers can translate them to HTTP
// status codes without inspecting messages.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindUnprocessable
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unprocessablef(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindUnprocessable, Message: fmt.Sprintf(format, args...)}
}

func Internalf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// WrapDB maps translated GORM errors onto the taxonomy: uniqueness
// violations become Conflict, broken references and missing rows become
// NotFound, everything else stays Internal. Requires the DB to be opened
// with TranslateError.
func WrapDB(err error, context string) *AppError {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &AppError{Kind: KindNotFound, Message: context, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &AppError{Kind: KindConflict, Message: context, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &AppError{Kind: KindNotFound, Message: context, Err: err}
	default:
		return &AppError{Kind: KindInternal, Message: context, Err: err}
	}
}

// HTTPStatus maps an error kind to its documented status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindUnprocessable:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// AsAppError extracts an *AppError from any error, treating unknown errors
// as Internal so nothing bypasses the taxonomy.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// utils/apperror_test.go
package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want int
	}{
		{KindNotFound, fiber.StatusNotFound},
		{KindForbidden, fiber.StatusForbidden},
		{KindConflict, fiber.StatusConflict},
		{KindUnprocessable, fiber.StatusUnprocessableEntity},
		{KindInternal, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := &AppError{Kind: tc.kind, Message: "x"}
		assert.Equal(t, tc.want, err.HTTPStatus())
	}
}

func TestWrapDBMapping(t *testing.T) {
	assert.Equal(t, KindNotFound, WrapDB(gorm.ErrRecordNotFound, "missing").Kind)
	assert.Equal(t, KindConflict, WrapDB(gorm.ErrDuplicatedKey, "dup").Kind)
	assert.Equal(t, KindNotFound, WrapDB(gorm.ErrForeignKeyViolated, "broken ref").Kind)
	assert.Equal(t, KindInternal, WrapDB(errors.New("connection reset"), "boom").Kind)
}

func TestWrapDBPreservesCause(t *testing.T) {
	wrapped := WrapDB(gorm.ErrDuplicatedKey, "player already registered")
	assert.ErrorIs(t, wrapped, gorm.ErrDuplicatedKey)
	assert.Contains(t, wrapped.Error(), "player already registered")
}

func TestAsAppErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := NotFoundf("game %d not found", 42)
	outer := fmt.Errorf("while joining: %w", inner)

	appErr := AsAppError(outer)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, "game 42 not found", appErr.Message)
}

func TestAsAppErrorDefaultsToInternal(t *testing.T) {
	appErr := AsAppError(errors.New("something odd"))
	require.NotNil(t, appErr)
	assert.Equal(t, KindInternal, appErr.Kind)
}

func TestValidateStructFlattensFailures(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	assert.NoError(t, ValidateStruct(payload{Email: "a@b.se", Name: "x"}))

	err := ValidateStruct(payload{Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Name")
}

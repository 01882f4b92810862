// utils/response.go
package utils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the wire format for every endpoint: status code mirrored in
// the body, a human readable message, and the payload (null on failure).
type Envelope struct {
	StatusCode    int         `json:"status_code"`
	StatusMessage string      `json:"status_message"`
	Data          interface{} `json:"data"`
}

func RespondOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		StatusCode:    fiber.StatusOK,
		StatusMessage: "OK",
		Data:          data,
	})
}

// RespondError translates any error through the taxonomy into the envelope.
// Internal errors get a generic message; the cause goes to the log only.
func RespondError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)
	status := appErr.HTTPStatus()
	message := appErr.Message

	if appErr.Kind == KindInternal {
		log.Printf("❌ [%s] internal error: %v", c.Path(), err)
		message = "internal server error"
	}

	return c.Status(status).JSON(Envelope{
		StatusCode:    status,
		StatusMessage: message,
		Data:          nil,
	})
}

func RespondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{
		StatusCode:    fiber.StatusBadRequest,
		StatusMessage: message,
		Data:          nil,
	})
}

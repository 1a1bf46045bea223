// file: internals/helpers/json_response.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error helpers (shape estándar)
   { "error": "...", "detalle": "..." }
=================================*/

type ErrorResponse struct {
	Error   string `json:"error"`
	Detalle string `json:"detalle,omitempty"`
}

// JsonError: error genérico sin detalle
func JsonError(c *fiber.Ctx, status int, message string) error {
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// JsonErrorDetail: error con detalle técnico (500 de persistencia, etc.)
func JsonErrorDetail(c *fiber.Ctx, status int, message, detalle string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(ErrorResponse{Error: message, Detalle: detalle})
}

/* ===============================
   JSON responses (success)
=================================*/

// JsonList: lista con envoltura de paginación
func JsonList(c *fiber.Ctx, data any, pagination Pagination) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":       data,
		"pagination": pagination,
	})
}

// JsonMessage: confirmación simple ({"message": "..."})
func JsonMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": message})
}

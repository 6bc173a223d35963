package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/knayak08/AlumniBridge/internal/apperr"
)

// Envelope is the uniform response wrapper used by every endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// Fail maps an application error onto the envelope. Internal causes are
// logged server-side and replaced with a generic message so driver detail
// never crosses the boundary.
func Fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	env := Envelope{Success: false, Message: "Server error"}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Code != apperr.CodeInternal {
			env.Message = ae.Message
			env.Errors = ae.Fields
		}
	}
	if status == fiber.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(env)
}

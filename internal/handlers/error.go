package handlers

import (
	"errors"

	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler is the custom error handler for Fiber. Only *fiber.Error messages
// reach the client; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logger.GetLogger("handlers").Errorw("unhandled error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}

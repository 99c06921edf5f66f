package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FromFiberError turns a service error into the standard error response.
// Anything that is not a *fiber.Error (or a missing row) is logged and answered as 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonError(c, fiber.StatusNotFound, "not found")
	}
	log.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

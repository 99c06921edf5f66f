package logger

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HeaderRequestID = "X-Request-ID"
	RequestTimeout  = 5 * time.Second
)

// LoggerMiddleware tags every request with an id, bounds it with a timeout
// and logs one line when it completes.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = utils.UUIDv4()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals("request_id", rid)

		l := log.With().Str("request_id", rid).Logger()
		ctx, cancel := context.WithTimeout(l.WithContext(c.UserContext()), RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		if err != nil {
			// let the app error handler write the response before logging the status
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return nil
	}
}

package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "savethedate_backend/internals/helpers"
)

// TrustProxies makes c.IP() read X-Forwarded-For only for requests coming from the
// given CIDRs. With none, the socket address is the client IP.
func TrustProxies(cfg *fiber.Config, proxies []string) {
	if len(proxies) == 0 {
		return
	}
	cfg.ProxyHeader = fiber.HeaderXForwardedFor
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = proxies
}

// GlobalRateLimiter applies to every endpoint, keyed by client IP.
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			// provider callbacks come in bursts
			return c.Path() == "/api/donations/midtrans/webhook"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many requests, try again later")
		},
	})
}

// LoginRateLimiter is the stricter limit for admin login.
func LoginRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many login attempts, try again in a minute")
		},
	})
}

// IdentifyRateLimiter slows down guessing of guest names and personal codes.
func IdentifyRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "too many lookups, try again later")
		},
	})
}

package middlewares

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookups(t *testing.T, proxies []string, n int) (lastStatus int, ip string) {
	t.Helper()
	cfg := fiber.Config{}
	TrustProxies(&cfg, proxies)
	app := fiber.New(cfg)
	app.Get("/lookup", IdentifyRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendString(c.IP())
	})

	for i := 0; i < n; i++ {
		req := httptest.NewRequest(fiber.MethodGet, "/lookup", nil)
		// a fresh forged address on every call
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("203.0.113.%d", i+1))
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		lastStatus, ip = resp.StatusCode, string(body)
	}
	return lastStatus, ip
}

func TestForwardedForIgnoredWithoutTrustedProxies(t *testing.T) {
	status, _ := lookups(t, nil, 25)
	assert.Equal(t, fiber.StatusTooManyRequests, status)

	_, ip := lookups(t, nil, 1)
	assert.NotContains(t, ip, "203.0.113.")
}

func TestForwardedForHonouredFromTrustedProxy(t *testing.T) {
	_, ip := lookups(t, []string{"0.0.0.0/0"}, 1)
	assert.Equal(t, "203.0.113.1", ip)
}

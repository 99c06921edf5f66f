package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(opt Options) *fiber.App {
	app := fiber.New()
	app.Get("/admin", AdminOnlyWith(opt), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userRole").(string))
	})
	return app
}

func status(t *testing.T, app *fiber.App, header, value string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAdminOnlyAPIKey(t *testing.T) {
	app := newApp(Options{APIKey: "s3cret"})

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "", ""))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, HeaderAPIKey, "nope"))
	assert.Equal(t, fiber.StatusOK, status(t, app, HeaderAPIKey, "s3cret"))
}

func TestAdminOnlyBearer(t *testing.T) {
	const secret = "jwt-secret"
	app := newApp(Options{APIKey: "k", JWTSecret: secret})
	now := time.Now()

	tok, exp, err := IssueAdminToken(secret, "owner@example.com", now)
	require.NoError(t, err)
	assert.True(t, exp.After(now))
	assert.Equal(t, fiber.StatusOK, status(t, app, fiber.HeaderAuthorization, "Bearer "+tok))

	other, _, err := IssueAdminToken("other-secret", "owner@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, fiber.HeaderAuthorization, "Bearer "+other))

	expired, _, err := IssueAdminToken(secret, "owner@example.com", now.Add(-2*AdminTokenTTL))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, fiber.HeaderAuthorization, "Bearer "+expired))

	guest, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "guest", "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, status(t, app, fiber.HeaderAuthorization, "Bearer "+guest))

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, fiber.HeaderAuthorization, "Basic abc"))
}

func TestAdminOnlyOpenInDebug(t *testing.T) {
	assert.Equal(t, fiber.StatusOK, status(t, newApp(Options{Debug: true}), "", ""))
	// a configured key still applies in debug
	assert.Equal(t, fiber.StatusUnauthorized, status(t, newApp(Options{Debug: true, APIKey: "k"}), "", ""))
}

func TestIssueAdminTokenNeedsSecret(t *testing.T) {
	_, _, err := IssueAdminToken("", "a@b.c", time.Now())
	assert.Error(t, err)
}

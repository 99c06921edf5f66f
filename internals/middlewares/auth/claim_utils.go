package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"savethedate_backend/internals/constants"
)

// AdminTokenTTL is the lifetime of tokens issued by the login endpoint.
const AdminTokenTTL = 12 * time.Hour

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		return "", errors.New("missing credentials")
	}
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("empty token")
	}
	return tok, nil
}

func storeBasicClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if role, ok := claims["role"].(string); ok {
		c.Locals("userRole", role)
	}
	if sub, ok := claims["sub"].(string); ok {
		c.Locals("admin_email", sub)
	}
}

// IssueAdminToken signs an HS256 token with role=admin for email.
func IssueAdminToken(secret, email string, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET is not set")
	}
	exp := now.Add(AdminTokenTTL)
	claims := jwt.MapClaims{
		"sub":  email,
		"role": constants.RoleAdmin,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

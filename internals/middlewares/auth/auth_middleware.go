package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	"savethedate_backend/internals/constants"
	helper "savethedate_backend/internals/helpers"
)

const HeaderAPIKey = "X-API-Key"

// Options are read from configs by default; tests set them directly.
type Options struct {
	APIKey    string
	JWTSecret string
	Debug     bool
}

func optionsFromConfig() Options {
	return Options{APIKey: configs.AdminAPIKey, JWTSecret: configs.JWTSecret, Debug: configs.Debug}
}

// AdminOnly guards CMS routes: X-API-Key, or a Bearer token with role=admin.
// With DEBUG and no API key configured every request passes.
func AdminOnly() fiber.Handler {
	return AdminOnlyWith(optionsFromConfig())
}

func AdminOnlyWith(opt Options) fiber.Handler {
	if opt.Debug && opt.APIKey == "" {
		log.Warn().Msg("admin routes are open (DEBUG without ADMIN_API_KEY)")
	}
	return func(c *fiber.Ctx) error {
		if opt.Debug && opt.APIKey == "" {
			c.Locals("userRole", constants.RoleAdmin)
			return c.Next()
		}

		if key := strings.TrimSpace(c.Get(HeaderAPIKey)); key != "" {
			if opt.APIKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(opt.APIKey)) == 1 {
				c.Locals("userRole", constants.RoleAdmin)
				c.Locals("auth_method", "api_key")
				return c.Next()
			}
			log.Ctx(c.UserContext()).Warn().Str("path", c.Path()).Msg("invalid admin api key")
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid API key")
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		if opt.JWTSecret == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "bearer tokens are not enabled")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(opt.JWTSecret), nil
		}); err != nil {
			log.Ctx(c.UserContext()).Warn().Err(err).Msg("admin token rejected")
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		storeBasicClaimsToLocals(c, claims)
		if role, _ := c.Locals("userRole").(string); role != constants.RoleAdmin {
			return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin("this resource"))
		}
		return c.Next()
	}
}

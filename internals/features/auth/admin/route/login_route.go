package route

import (
	"github.com/gofiber/fiber/v2"

	loginController "savethedate_backend/internals/features/auth/admin/controller"
	"savethedate_backend/internals/middlewares"
)

func AuthRoutes(public fiber.Router) {
	ctl := loginController.NewLoginController(nil, loginController.CredentialsFromEnv())

	r := public.Group("/auth")
	r.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
}

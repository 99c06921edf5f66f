package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"savethedate_backend/internals/configs"
	"savethedate_backend/internals/features/auth/admin/dto"
	helper "savethedate_backend/internals/helpers"
	"savethedate_backend/internals/middlewares/auth"
)

// Credentials of the single CMS account. PasswordHash is a bcrypt hash.
type Credentials struct {
	Email        string
	PasswordHash string
	JWTSecret    string
}

func CredentialsFromEnv() Credentials {
	return Credentials{
		Email:        strings.ToLower(strings.TrimSpace(configs.GetEnv("ADMIN_EMAIL"))),
		PasswordHash: configs.GetEnv("ADMIN_PASSWORD_HASH"),
		JWTSecret:    configs.JWTSecret,
	}
}

type LoginController struct {
	Validator *validator.Validate
	Creds     Credentials
	Now       func() time.Time
}

func NewLoginController(v *validator.Validate, creds Credentials) *LoginController {
	if v == nil {
		v = validator.New()
	}
	return &LoginController{Validator: v, Creds: creds, Now: time.Now}
}

// POST /api/auth/login
func (ctl *LoginController) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	body.Normalize()

	if ctl.Creds.Email == "" || ctl.Creds.PasswordHash == "" || ctl.Creds.JWTSecret == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "admin login is not configured")
	}
	// always run bcrypt so a wrong email costs as much as a wrong password
	pwErr := bcrypt.CompareHashAndPassword([]byte(ctl.Creds.PasswordHash), []byte(body.Password))
	if body.Email != ctl.Creds.Email || pwErr != nil {
		log.Ctx(c.UserContext()).Warn().Str("email", body.Email).Msg("admin login failed")
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	tok, exp, err := auth.IssueAdminToken(ctl.Creds.JWTSecret, body.Email, ctl.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	log.Ctx(c.UserContext()).Info().Str("email", body.Email).Msg("admin logged in")
	return helper.JsonOK(c, "login successful", dto.LoginResponse{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp})
}

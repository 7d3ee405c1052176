package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"jewelstore/middleware"
	"jewelstore/store"
)

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login exchanges admin credentials for a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var creds LoginRequest
	if err := c.BodyParser(&creds); err != nil {
		return badRequest("Invalid request format")
	}

	ctx := c.UserContext()
	user, err := h.users.Authenticate(ctx, creds.Username, creds.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		log.Ctx(ctx).Warn().Str("username", creds.Username).Msg("failed admin login")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "No active account found with the given credentials",
		})
	}
	if err != nil {
		return err
	}

	now := time.Now()
	token, err := middleware.IssueToken(h.jwtSecret, user.Username, now)
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("username", user.Username).Msg("admin logged in")
	return c.JSON(LoginResponse{Token: token, Username: user.Username, ExpiresAt: now.Add(middleware.TokenTTL)})
}

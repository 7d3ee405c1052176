package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"jewelstore/store"
)

const detailNotFound = "Not found."

// ErrorHandler renders store errors the way the storefront clients expect:
// field errors as {field: [messages]}, everything else as {"detail": msg}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		verr  *store.ValidationError
		uerr  *store.UniquenessError
		cerr  *store.ConflictError
		fiErr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(verr.Fields)
	case errors.As(err, &uerr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{uerr.Field: []string{uerr.Message}})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": detailNotFound})
	case errors.As(err, &cerr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"detail": cerr.Message})
	case errors.As(err, &fiErr):
		return c.Status(fiErr.Code).JSON(fiber.Map{"detail": fiErr.Message})
	}

	log.Ctx(c.UserContext()).Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "A server error occurred."})
}

func badRequest(detail string) error {
	return fiber.NewError(fiber.StatusBadRequest, detail)
}

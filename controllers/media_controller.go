package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jewelstore/storage"
	"jewelstore/store"
)

// ServeMedia streams a stored image by its key.
func (h *Handler) ServeMedia(c *fiber.Ctx) error {
	obj, err := h.media.Open(c.UserContext(), c.Params("*"))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(obj.Data)
}

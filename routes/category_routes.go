package routes

import (
	"github.com/gofiber/fiber/v2"

	"jewelstore/controllers"
)

func RegisterCategoryRoutes(api fiber.Router, h *controllers.Handler, admin fiber.Handler) {
	categories := api.Group("/categories")
	categories.Get("/", h.ListCategories)
	categories.Get("/:slug", h.GetCategory)
	categories.Post("/", admin, h.CreateCategory)
	categories.Put("/:slug", admin, h.UpdateCategory)
	categories.Patch("/:slug", admin, h.UpdateCategory)
	categories.Delete("/:slug", admin, h.DeleteCategory)
}

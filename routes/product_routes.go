package routes

import (
	"github.com/gofiber/fiber/v2"

	"jewelstore/controllers"
)

func RegisterProductRoutes(api fiber.Router, h *controllers.Handler, admin fiber.Handler) {
	products := api.Group("/products")
	products.Get("/", h.ListProducts)
	products.Get("/latest_featured", h.LatestFeatured)
	products.Get("/by-category/:slug", h.ProductsByCategory)
	products.Get("/:id", h.GetProduct)
	products.Post("/", admin, h.CreateProduct)
	products.Put("/:id", admin, h.UpdateProduct)
	products.Patch("/:id", admin, h.UpdateProduct)
	products.Delete("/:id", admin, h.DeleteProduct)
}

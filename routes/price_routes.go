package routes

import (
	"github.com/gofiber/fiber/v2"

	"jewelstore/controllers"
)

func RegisterPriceRoutes(api fiber.Router, h *controllers.Handler, admin fiber.Handler) {
	prices := api.Group("/prices")
	prices.Get("/", h.ListPrices)
	prices.Get("/latest", h.LatestPrice)
	prices.Get("/:id", h.GetPrice)
	prices.Post("/", admin, h.CreatePrice)
	prices.Put("/:id", admin, h.UpdatePrice)
	prices.Patch("/:id", admin, h.UpdatePrice)
	prices.Delete("/:id", admin, h.DeletePrice)
}

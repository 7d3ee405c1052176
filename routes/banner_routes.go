package routes

import (
	"github.com/gofiber/fiber/v2"

	"jewelstore/controllers"
)

func RegisterBannerRoutes(api fiber.Router, h *controllers.Handler, admin fiber.Handler) {
	banners := api.Group("/banners")
	banners.Get("/", h.ListBanners)
	banners.Get("/active_banners", h.ActiveBanners)
	banners.Get("/:id", h.GetBanner)
	banners.Post("/", admin, h.CreateBanner)
	banners.Put("/:id", admin, h.UpdateBanner)
	banners.Patch("/:id", admin, h.UpdateBanner)
	banners.Delete("/:id", admin, h.DeleteBanner)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"jewelstore/controllers"
	"jewelstore/middleware"
)

type AppOptions struct {
	JWTSecret   []byte
	CORSOrigins string
	// BodyLimit caps request bodies in bytes; zero keeps fiber's default.
	BodyLimit int
}

// NewApp builds the fiber application with its middleware and every route.
func NewApp(h *controllers.Handler, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "jewelstore",
		DisableStartupMessage: true,
		ErrorHandler:          controllers.ErrorHandler,
		BodyLimit:             opts.BodyLimit,
	})

	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization, X-Request-ID",
	}))

	Setup(app, h, opts.JWTSecret)
	return app
}

// Setup mounts the whole API on app. Reads are public, writes need an admin
// token signed with jwtSecret.
func Setup(app *fiber.App, h *controllers.Handler, jwtSecret []byte) {
	app.Get("/health", h.Health)
	app.Get("/media/*", h.ServeMedia)

	api := app.Group("/api")
	api.Post("/login", h.Login)

	admin := middleware.JWTAdmin(jwtSecret)
	RegisterCategoryRoutes(api, h, admin)
	RegisterProductRoutes(api, h, admin)
	RegisterPriceRoutes(api, h, admin)
	RegisterBannerRoutes(api, h, admin)
}

// Package server assembles the fiber application and its routes.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/office-letters/internal/handlers"
	"alfredoptarigan/office-letters/internal/middleware"
	"alfredoptarigan/office-letters/internal/services"
	"alfredoptarigan/office-letters/internal/views"
)

const appName = "Office Letters"

type Dependencies struct {
	Log              zerolog.Logger
	Session          *middleware.Auth
	Storage          services.StorageService
	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler
	DocumentHandler  *handlers.DocumentHandler
}

// New builds the application with every route registered.
func New(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		Views:                 views.NewEngine(),
		ErrorHandler:          handlers.ErrorHandler(deps.Log),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.Logging(deps.Log))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().UTC(),
		})
	})

	app.Get("/login", deps.AuthHandler.ShowLogin)
	app.Post("/login", deps.AuthHandler.HandleLogin)
	app.Get("/logout", deps.AuthHandler.HandleLogout)

	requireSession := deps.Session.RequireSession
	app.Get("/", requireSession, deps.DashboardHandler.HandleIndex)
	app.Post("/generate", requireSession, deps.DocumentHandler.HandleGenerate)
	app.Get("/documents/:id", requireSession, deps.DocumentHandler.HandleShow)

	// Only generated files are public to signed-in users; the database file
	// next to them is never served.
	files := app.Group("/storage/generated", requireSession)
	files.Static("/", deps.Storage.GeneratedRoot(), fiber.Static{
		Browse:   false,
		Download: true,
	})

	return app
}

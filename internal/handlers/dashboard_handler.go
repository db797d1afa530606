package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/office-letters/internal/middleware"
	"alfredoptarigan/office-letters/internal/services"
	"alfredoptarigan/office-letters/internal/views"
)

type DashboardHandler struct {
	docService services.DocumentService
}

func NewDashboardHandler(docService services.DocumentService) *DashboardHandler {
	return &DashboardHandler{
		docService: docService,
	}
}

// HandleIndex lists the most recent documents, newest first.
func (h *DashboardHandler) HandleIndex(c *fiber.Ctx) error {
	docs, err := h.docService.Latest(c.UserContext())
	if err != nil {
		return err
	}

	return c.Render("dashboard", fiber.Map{
		"Title":     "لوحة التحكم",
		"User":      middleware.Username(c),
		"Documents": docs,
	}, views.Layout)
}

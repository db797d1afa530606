package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"alfredoptarigan/office-letters/internal/middleware"
	"alfredoptarigan/office-letters/internal/models"
	"alfredoptarigan/office-letters/internal/services"
	"alfredoptarigan/office-letters/internal/views"
)

type DocumentHandler struct {
	docService     services.DocumentService
	storageService services.StorageService
	pdfParser      services.PDFParserService
	log            zerolog.Logger
}

func NewDocumentHandler(
	docService services.DocumentService,
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	log zerolog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docService:     docService,
		storageService: storageService,
		pdfParser:      pdfParser,
		log:            log,
	}
}

func (h *DocumentHandler) HandleGenerate(c *fiber.Ctx) error {
	var form models.GenerateForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	if _, err := h.docService.Generate(c.UserContext(), middleware.Username(c), form); err != nil {
		if errors.Is(err, services.ErrInvalidLetter) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleShow renders one document with its files and the text read back
// from its PDF.
func (h *DocumentHandler) HandleShow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrNotFound
	}

	doc, err := h.docService.Get(c.UserContext(), uint(id))
	if err != nil {
		if services.IsNotFound(err) {
			return fiber.ErrNotFound
		}
		return err
	}

	return c.Render("document", fiber.Map{
		"Title":    "مستند",
		"User":     middleware.Username(c),
		"Document": doc,
		"Preview":  h.preview(doc),
	}, views.Layout)
}

func (h *DocumentHandler) preview(doc *models.Document) string {
	file, ok := doc.File(models.FileTypePDF)
	if !ok {
		return ""
	}

	path, err := h.storageService.GetFilePath(file.FilePath)
	if err != nil {
		h.log.Warn().Err(err).Uint("document_id", doc.ID).Msg("invalid pdf path")
		return ""
	}

	text, err := h.pdfParser.ExtractText(path)
	if err != nil {
		h.log.Warn().Err(err).Uint("document_id", doc.ID).Msg("pdf preview unavailable")
		return ""
	}
	return text
}

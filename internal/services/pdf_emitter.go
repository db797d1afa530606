package services

import (
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"alfredoptarigan/office-letters/internal/models"
)

const (
	pdfLeftMargin  = 72.0
	pdfFirstLineY  = 800.0 // measured from the bottom edge
	pdfLineSpacing = 24.0
	pdfFontSize    = 12.0
	pdfFontFamily  = "letter"
)

// ErrPDFFontRequired is returned when a line holds characters the core font
// cannot encode and no TTF font is configured.
var ErrPDFFontRequired = errors.New("text needs a UTF-8 font (PDF_FONT_PATH)")

type pdfEmitter struct {
	labels   LetterLabels
	fontPath string
}

// NewPDFEmitter draws with the TTF at fontPath when given. Without one it
// falls back to core Helvetica with the English labels, and Emit refuses
// values outside Windows-1252 instead of writing them lossily.
func NewPDFEmitter(labels LetterLabels, fontPath string) Emitter {
	if fontPath == "" {
		labels = EnglishLabels
	}
	return &pdfEmitter{labels: labels, fontPath: fontPath}
}

func (e *pdfEmitter) FileType() models.FileType {
	return models.FileTypePDF
}

// Lines returns the six lines printed on the page, top to bottom.
func (e *pdfEmitter) Lines(letter Letter) []string {
	lines := []string{e.labels.FormTitle}
	for _, f := range letter.Fields(e.labels) {
		lines = append(lines, f.Line())
	}
	return append(lines, e.labels.Body)
}

func (e *pdfEmitter) Emit(path string, letter Letter) error {
	lines := e.Lines(letter)

	pdf := fpdf.New("P", "pt", "A4", "")
	if e.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", e.fontPath)
		pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	} else {
		// core fonts expect cp1252 bytes
		enc := charmap.Windows1252.NewEncoder()
		for i, line := range lines {
			encoded, err := enc.String(line)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrPDFFontRequired, line)
			}
			lines[i] = encoded
		}
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()
	y := pageHeight - pdfFirstLineY
	for _, line := range lines {
		pdf.Text(pdfLeftMargin, y, line)
		y += pdfLineSpacing
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
